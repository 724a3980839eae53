package verify

import (
	"bytes"
	"fmt"

	"github.com/sarchlab/bfemu/core"
	"github.com/sarchlab/bfemu/program"
)

// FunctionalSimulator interprets raw source one symbol at a time. It keeps
// its own sparse tape and bracket table so that it can serve as a model for
// the optimized pipeline.
type FunctionalSimulator struct {
	src     []byte
	partner map[int]int

	cells  map[int]byte
	head   int
	lo, hi int
	pc     int

	input  []byte
	output bytes.Buffer
	steps  uint64

	// TraceStep, if set, is called before each symbol is executed.
	TraceStep func(pc int, sym byte, head int, cell byte)
}

// NewFunctionalSimulator creates a simulator for source. Input is consumed
// by read symbols in order. Unbalanced brackets are reported with the same
// errors the parser uses.
func NewFunctionalSimulator(source string, input []byte) (*FunctionalSimulator, error) {
	fs := &FunctionalSimulator{
		src:     []byte(source),
		partner: make(map[int]int),
		cells:   make(map[int]byte),
		input:   input,
	}

	var open []int
	for i, c := range fs.src {
		switch c {
		case '[':
			open = append(open, i)
		case ']':
			if len(open) == 0 {
				return nil, &program.SyntaxError{
					Err:    program.ErrUnmatchedClosingBracket,
					Offset: i,
				}
			}
			j := open[len(open)-1]
			open = open[:len(open)-1]
			fs.partner[i] = j
			fs.partner[j] = i
		}
	}

	if len(open) > 0 {
		return nil, &program.SyntaxError{
			Err:    program.ErrUnmatchedOpeningBracket,
			Offset: open[len(open)-1],
		}
	}

	return fs, nil
}

// Run executes until the source ends, input runs out, or maxSteps symbols
// have been executed. A maxSteps of zero means no bound.
func (fs *FunctionalSimulator) Run(maxSteps uint64) error {
	for fs.pc < len(fs.src) {
		c := fs.src[fs.pc]
		if !isSymbol(c) {
			fs.pc++
			continue
		}

		if maxSteps > 0 && fs.steps >= maxSteps {
			return fmt.Errorf("%w: after %d symbols", core.ErrStepLimit, fs.steps)
		}

		if fs.TraceStep != nil {
			fs.TraceStep(fs.pc, c, fs.head, fs.cells[fs.head])
		}

		if err := fs.exec(c); err != nil {
			return err
		}

		fs.steps++
		fs.pc++
	}

	return nil
}

func (fs *FunctionalSimulator) exec(c byte) error {
	switch c {
	case '+':
		fs.cells[fs.head]++
	case '-':
		fs.cells[fs.head]--
	case '<':
		fs.moveHead(-1)
	case '>':
		fs.moveHead(1)
	case ',':
		if len(fs.input) == 0 {
			return fmt.Errorf("%w: at source offset %d", core.ErrInputExhausted, fs.pc)
		}
		fs.cells[fs.head] = fs.input[0]
		fs.input = fs.input[1:]
	case '.':
		fs.output.WriteByte(fs.cells[fs.head])
	case '[':
		if fs.cells[fs.head] == 0 {
			fs.pc = fs.partner[fs.pc]
		}
	case ']':
		if fs.cells[fs.head] != 0 {
			fs.pc = fs.partner[fs.pc]
		}
	}

	return nil
}

func (fs *FunctionalSimulator) moveHead(delta int) {
	fs.head += delta
	fs.lo = min(fs.lo, fs.head)
	fs.hi = max(fs.hi, fs.head)
}

func isSymbol(c byte) bool {
	switch c {
	case '+', '-', '<', '>', ',', '.', '[', ']':
		return true
	}
	return false
}

// Output returns the bytes written so far.
func (fs *FunctionalSimulator) Output() []byte {
	return fs.output.Bytes()
}

// Steps returns how many symbols have been executed.
func (fs *FunctionalSimulator) Steps() uint64 {
	return fs.steps
}

// GetCell returns the cell at index i, counted from the starting cell.
func (fs *FunctionalSimulator) GetCell(i int) byte {
	return fs.cells[i]
}

// Head returns the head index, counted from the starting cell.
func (fs *FunctionalSimulator) Head() int {
	return fs.head
}

// Visited returns the lowest and highest cell indices the head has reached.
func (fs *FunctionalSimulator) Visited() (lo, hi int) {
	return fs.lo, fs.hi
}

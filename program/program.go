// Package program turns source text into a linked, optimized sequence of
// operations ready for the interpreter core.
//
// The pipeline is strictly sequential:
//
//	Lexer -> Parse -> Optimize -> Link
package program

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sarchlab/bfemu/instr"
)

// Program is an ordered list of operations. Jump targets are only valid
// once Linked is set.
type Program struct {
	Insts  []instr.Inst
	Linked bool
}

// Len returns the number of operations.
func (p Program) Len() int {
	return len(p.Insts)
}

func (p Program) String() string {
	var sb strings.Builder
	for i, inst := range p.Insts {
		fmt.Fprintf(&sb, "%4d  %s\n", i, inst)
	}
	return sb.String()
}

// Load runs the full pipeline over source text. When optimize is false the
// program is linked straight after parsing.
func Load(source string, optimize bool) (Program, Stats, error) {
	var stats Stats

	prog, err := Parse(source)
	if err != nil {
		return Program{}, stats, err
	}
	slog.Debug("Pipeline", "Stage", "Parse", "Len", prog.Len())

	if optimize {
		prog, stats = Optimize(prog)
		slog.Debug("Pipeline", "Stage", "Optimize",
			"Len", prog.Len(), "Passes", stats.Passes, "Folds", stats.Folds())
	}

	prog, err = Link(prog)
	if err != nil {
		return Program{}, stats, err
	}
	slog.Debug("Pipeline", "Stage", "Link", "Len", prog.Len())

	return prog, stats, nil
}

// LoadProgramFile reads a source file and runs Load over it.
func LoadProgramFile(path string, optimize bool) (Program, Stats, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return Program{}, Stats{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	return Load(string(source), optimize)
}

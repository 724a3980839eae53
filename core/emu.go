package core

import (
	"fmt"
	"io"

	"github.com/sarchlab/bfemu/instr"
	"github.com/sarchlab/bfemu/program"
)

type coreState struct {
	IP       int
	Code     program.Program
	Tape     *Tape
	Input    ByteSource
	Output   io.Writer
	Executed uint64

	outBuf []byte
}

type instEmulator struct {
}

// RunInst executes the operation under the instruction pointer and moves
// the pointer on.
func (i instEmulator) RunInst(state *coreState) error {
	inst := state.Code.Insts[state.IP]

	var err error
	switch inst.Op {
	case instr.OpAdd:
		i.runAdd(inst, state)
	case instr.OpSub:
		i.runSub(inst, state)
	case instr.OpLeft:
		i.runMove(-inst.Count, state)
	case instr.OpRight:
		i.runMove(inst.Count, state)
	case instr.OpRead:
		err = i.runRead(inst, state)
	case instr.OpWrite:
		err = i.runWrite(inst, state)
	case instr.OpJumpIfZero:
		i.runJumpIf(inst, state, state.Tape.Get() == 0)
	case instr.OpJumpIfNonZero:
		i.runJumpIf(inst, state, state.Tape.Get() != 0)
	case instr.OpZero:
		i.runZero(state)
	case instr.OpAddTo:
		i.runMulAdd(inst.Offset, 1, state)
	case instr.OpSubFrom:
		i.runMulAdd(inst.Offset, 0xff, state)
	case instr.OpMulAdd:
		i.runMulAdd(inst.Offset, inst.Value, state)
	default:
		panic(fmt.Sprintf("%v: unknown operation %s at %d", ErrInternal, inst, state.IP))
	}

	state.Executed++
	return err
}

func (i instEmulator) runAdd(inst instr.Inst, state *coreState) {
	state.Tape.Set(state.Tape.Get() + inst.Value)
	state.IP++
}

func (i instEmulator) runSub(inst instr.Inst, state *coreState) {
	state.Tape.Set(state.Tape.Get() - inst.Value)
	state.IP++
}

func (i instEmulator) runMove(delta int, state *coreState) {
	state.Tape.Move(delta)
	state.IP++
}

// runRead consumes Count bytes and keeps only the last one.
func (i instEmulator) runRead(inst instr.Inst, state *coreState) error {
	if f, ok := state.Output.(FlushWriter); ok {
		if err := f.Flush(); err != nil {
			return err
		}
	}

	for n := 0; n < inst.Count; n++ {
		b, err := state.Input.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInputExhausted, err)
		}
		state.Tape.Set(b)
	}

	state.IP++
	return nil
}

func (i instEmulator) runWrite(inst instr.Inst, state *coreState) error {
	v := state.Tape.Get()

	buf := state.outBuf[:0]
	for n := 0; n < inst.Count; n++ {
		buf = append(buf, v)
	}
	state.outBuf = buf

	if _, err := state.Output.Write(buf); err != nil {
		return err
	}

	state.IP++
	return nil
}

// runJumpIf lands on the partner bracket when taken; the increment that
// follows steps past it.
func (i instEmulator) runJumpIf(inst instr.Inst, state *coreState, taken bool) {
	if taken {
		i.jumpTargetMustBeInProgram(inst, state)
		state.IP = inst.Target
	}
	state.IP++
}

func (i instEmulator) jumpTargetMustBeInProgram(inst instr.Inst, state *coreState) {
	if inst.Target < 0 || inst.Target >= state.Code.Len() {
		panic(fmt.Sprintf("%v: jump target %d out of range at %d",
			ErrInternal, inst.Target, state.IP))
	}
}

func (i instEmulator) runZero(state *coreState) {
	state.Tape.Set(0)
	state.IP++
}

// runMulAdd adds current*factor into the cell at offset and clears the
// current cell. Subtraction is a factor of 255, which is -1 modulo 256.
func (i instEmulator) runMulAdd(offset int, factor uint8, state *coreState) {
	v := state.Tape.Get()
	state.Tape.AddAt(offset, v*factor)
	state.Tape.Set(0)
	state.IP++
}

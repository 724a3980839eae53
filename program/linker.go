package program

import (
	"fmt"

	"github.com/sarchlab/bfemu/instr"
)

// Link resolves every jump to the index of its partner. The input is left
// untouched; the returned program is marked linked and must not be modified.
func Link(p Program) (Program, error) {
	insts := make([]instr.Inst, len(p.Insts))
	copy(insts, p.Insts)

	var stack []int
	for i, inst := range insts {
		switch inst.Op {
		case instr.OpJumpIfZero:
			stack = append(stack, i)
		case instr.OpJumpIfNonZero:
			if len(stack) == 0 {
				return Program{}, fmt.Errorf("%w: JNZ at %d has no partner", ErrInternal, i)
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			insts[i].Target = open
			insts[open].Target = i
		}
	}

	if len(stack) > 0 {
		return Program{}, fmt.Errorf("%w: JZ at %d has no partner",
			ErrInternal, stack[len(stack)-1])
	}

	return Program{Insts: insts, Linked: true}, nil
}

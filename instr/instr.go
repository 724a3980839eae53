// Package instr defines the operations executed by the interpreter core.
package instr

import "fmt"

// OpCode identifies the kind of an operation.
type OpCode uint8

const (
	OpInvalid OpCode = iota

	// Primitive operations, one per source symbol.
	OpAdd
	OpSub
	OpLeft
	OpRight
	OpRead
	OpWrite
	OpJumpIfZero
	OpJumpIfNonZero

	// Composite operations introduced by the optimizer.
	OpZero
	OpAddTo
	OpSubFrom
	OpMulAdd
)

var opNames = map[OpCode]string{
	OpInvalid:       "INVALID",
	OpAdd:           "ADD",
	OpSub:           "SUB",
	OpLeft:          "LEFT",
	OpRight:         "RIGHT",
	OpRead:          "READ",
	OpWrite:         "WRITE",
	OpJumpIfZero:    "JZ",
	OpJumpIfNonZero: "JNZ",
	OpZero:          "ZERO",
	OpAddTo:         "ADDTO",
	OpSubFrom:       "SUBFROM",
	OpMulAdd:        "MUL",
}

func (o OpCode) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OpCode(%d)", uint8(o))
}

// IsJump reports whether the opcode is one of the two bracket jumps.
func (o OpCode) IsJump() bool {
	return o == OpJumpIfZero || o == OpJumpIfNonZero
}

// IsComposite reports whether the opcode is produced only by the optimizer.
func (o OpCode) IsComposite() bool {
	return o >= OpZero && o <= OpMulAdd
}

// NoTarget marks a jump whose target has not been linked yet.
const NoTarget = -1

// Inst is a single operation. Which payload fields are meaningful depends on
// Op:
//
//	ADD, SUB           Value (wrapped count)
//	LEFT, RIGHT        Count
//	READ, WRITE        Count
//	JZ, JNZ            Target
//	ZERO               -
//	ADDTO, SUBFROM     Offset
//	MUL                Value (multiplier), Offset
type Inst struct {
	Op     OpCode
	Count  int
	Value  uint8
	Offset int
	Target int
}

// Add increments the current cell by n, modulo 256.
func Add(n int) Inst { return Inst{Op: OpAdd, Value: uint8(n)} }

// Sub decrements the current cell by n, modulo 256.
func Sub(n int) Inst { return Inst{Op: OpSub, Value: uint8(n)} }

// Left moves the head n cells to the left.
func Left(n int) Inst { return Inst{Op: OpLeft, Count: n} }

// Right moves the head n cells to the right.
func Right(n int) Inst { return Inst{Op: OpRight, Count: n} }

// Read consumes n input bytes and keeps the last one.
func Read(n int) Inst { return Inst{Op: OpRead, Count: n} }

// Write emits the current cell n times.
func Write(n int) Inst { return Inst{Op: OpWrite, Count: n} }

// JumpIfZero opens a loop. The target is filled in by the linker.
func JumpIfZero() Inst { return Inst{Op: OpJumpIfZero, Target: NoTarget} }

// JumpIfNonZero closes a loop.
func JumpIfNonZero(target int) Inst { return Inst{Op: OpJumpIfNonZero, Target: target} }

// Zero clears the current cell.
func Zero() Inst { return Inst{Op: OpZero} }

// AddTo adds the current cell into the cell at offset and clears it.
func AddTo(offset int) Inst { return Inst{Op: OpAddTo, Offset: offset} }

// SubFrom subtracts the current cell from the cell at offset and clears it.
func SubFrom(offset int) Inst { return Inst{Op: OpSubFrom, Offset: offset} }

// MulAdd adds current*multiplier into the cell at offset and clears the
// current cell.
func MulAdd(multiplier uint8, offset int) Inst {
	return Inst{Op: OpMulAdd, Value: multiplier, Offset: offset}
}

// Delta returns the signed contribution of an ADD or SUB to the current cell.
// It is zero for every other opcode.
func (i Inst) Delta() int {
	switch i.Op {
	case OpAdd:
		return int(i.Value)
	case OpSub:
		return -int(i.Value)
	default:
		return 0
	}
}

func (i Inst) String() string {
	switch i.Op {
	case OpAdd, OpSub:
		return fmt.Sprintf("%s %d", i.Op, i.Value)
	case OpLeft, OpRight, OpRead, OpWrite:
		return fmt.Sprintf("%s %d", i.Op, i.Count)
	case OpJumpIfZero, OpJumpIfNonZero:
		if i.Target == NoTarget {
			return fmt.Sprintf("%s ->?", i.Op)
		}
		return fmt.Sprintf("%s ->%d", i.Op, i.Target)
	case OpZero:
		return i.Op.String()
	case OpAddTo, OpSubFrom:
		return fmt.Sprintf("%s @%+d", i.Op, i.Offset)
	case OpMulAdd:
		return fmt.Sprintf("%s %d @%+d", i.Op, i.Value, i.Offset)
	default:
		return i.Op.String()
	}
}

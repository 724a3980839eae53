package core

import (
	"errors"
	"fmt"

	"github.com/sarchlab/bfemu/instr"
)

var (
	// ErrInputExhausted is returned when a read needs a byte the input
	// cannot supply.
	ErrInputExhausted = errors.New("input exhausted")

	// ErrStepLimit is returned when a run exceeds its configured step
	// budget.
	ErrStepLimit = errors.New("step limit reached")

	// ErrInternal marks a broken invariant, such as a jump target outside
	// the program.
	ErrInternal = errors.New("internal index error")
)

// ExecError reports the operation that failed at run time.
type ExecError struct {
	IP   int
	Inst instr.Inst
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%v (at %d: %s)", e.Err, e.IP, e.Inst)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

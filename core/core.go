// Package core executes linked programs against a growable tape.
package core

import (
	"io"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bfemu/program"
)

// HookPosOpExecuted is the hook position invoked after every executed
// operation. The hook item is the instr.Inst that ran.
var HookPosOpExecuted = &sim.HookPos{Name: "OpExecuted"}

// Core runs one program. It can be driven by a simulation engine, one
// operation per tick, or run to completion with Run.
type Core struct {
	*sim.TickingComponent

	state    coreState
	emu      instEmulator
	maxSteps uint64

	halted bool
	err    error
}

// MapProgram sets the program that the core needs to run and resets the
// tape.
func (c *Core) MapProgram(p program.Program) {
	if !p.Linked {
		panic("MapProgram expects a linked program")
	}

	c.state.Code = p
	c.state.IP = 0
	c.state.Tape = NewTape()
	c.state.Executed = 0
	c.halted = false
	c.err = nil
}

// Tick runs the program for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	if c.halted {
		return false
	}

	c.step()

	return !c.halted
}

// Run executes operations until the program ends or fails.
func (c *Core) Run() error {
	for !c.halted {
		c.step()
	}
	return c.err
}

func (c *Core) step() {
	if c.state.IP >= c.state.Code.Len() {
		c.halt(nil)
		return
	}

	if c.maxSteps > 0 && c.state.Executed >= c.maxSteps {
		c.halt(&ExecError{
			IP:   c.state.IP,
			Inst: c.state.Code.Insts[c.state.IP],
			Err:  ErrStepLimit,
		})
		return
	}

	ip := c.state.IP
	inst := c.state.Code.Insts[ip]
	if err := c.emu.RunInst(&c.state); err != nil {
		c.halt(&ExecError{IP: ip, Inst: inst, Err: err})
		return
	}

	if c.NumHooks() > 0 {
		c.InvokeHook(sim.HookCtx{
			Domain: c,
			Pos:    HookPosOpExecuted,
			Item:   inst,
		})
	}
}

func (c *Core) halt(err error) {
	c.halted = true
	c.err = err

	Trace("Core",
		"Behavior", "Halt",
		"Name", c.Name(),
		"IP", c.state.IP,
		"Executed", c.state.Executed,
		"TapeLen", c.state.Tape.Len(),
		"Err", err,
	)
}

// Halted reports whether the program has ended or failed.
func (c *Core) Halted() bool {
	return c.halted
}

// Err returns the error that stopped the core, if any.
func (c *Core) Err() error {
	return c.err
}

// Executed returns how many operations have run.
func (c *Core) Executed() uint64 {
	return c.state.Executed
}

// IP returns the instruction pointer.
func (c *Core) IP() int {
	return c.state.IP
}

// Tape exposes the tape for inspection.
func (c *Core) Tape() *Tape {
	return c.state.Tape
}

// SetInput replaces the input source.
func (c *Core) SetInput(src ByteSource) {
	c.state.Input = src
}

// SetOutput replaces the output sink.
func (c *Core) SetOutput(w io.Writer) {
	c.state.Output = w
}

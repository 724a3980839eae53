// Package api defines the driver API for the interpreter.
package api

import (
	"errors"
	"io"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bfemu/core"
	"github.com/sarchlab/bfemu/program"
)

// ErrNoProgram is returned by Run when no program has been mapped.
var ErrNoProgram = errors.New("no program mapped")

// Driver provides the interface to control an interpreter core.
type Driver interface {
	// MapProgram maps a linked program to the core. It resets the tape.
	MapProgram(p program.Program)

	// FeedIn sets the source that read operations consume.
	FeedIn(src core.ByteSource)

	// Collect sets the sink that write operations emit to. A sink that
	// buffers is flushed before every read and when the run ends.
	Collect(w io.Writer)

	// Run executes the mapped program to completion.
	Run() error

	// Stats reports on the last run.
	Stats() RunStats

	// Core exposes the driven core for inspection.
	Core() *core.Core
}

// RunStats summarizes a run.
type RunStats struct {
	Executed   uint64
	ProgramLen int

	// SimTime is the simulated time the run took. It is zero when the
	// driver runs without an engine.
	SimTime sim.VTimeInSec
}

type driverImpl struct {
	engine sim.Engine
	core   *core.Core

	mapped  bool
	progLen int
	output  io.Writer
	simTime sim.VTimeInSec
}

func (d *driverImpl) MapProgram(p program.Program) {
	d.core.MapProgram(p)
	d.mapped = true
	d.progLen = p.Len()
}

func (d *driverImpl) FeedIn(src core.ByteSource) {
	d.core.SetInput(src)
}

func (d *driverImpl) Collect(w io.Writer) {
	d.output = w
	d.core.SetOutput(w)
}

// Run executes the program. With an engine, the core is fired once and
// ticks itself until it halts.
func (d *driverImpl) Run() error {
	if !d.mapped {
		return ErrNoProgram
	}

	var err error
	if d.engine != nil {
		err = d.runSimulated()
	} else {
		err = d.core.Run()
	}

	if f, ok := d.output.(core.FlushWriter); ok {
		if flushErr := f.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}
	}

	core.Trace("Driver",
		"Behavior", "RunDone",
		"Executed", d.core.Executed(),
		"ProgramLen", d.progLen,
		"SimTime", float64(d.simTime),
	)
	core.LogState(d.core)

	return err
}

func (d *driverImpl) runSimulated() error {
	start := d.engine.CurrentTime()
	d.engine.Schedule(sim.MakeTickEvent(d.core, start))

	if err := d.engine.Run(); err != nil {
		return err
	}

	d.simTime = d.engine.CurrentTime() - start

	return d.core.Err()
}

func (d *driverImpl) Stats() RunStats {
	return RunStats{
		Executed:   d.core.Executed(),
		ProgramLen: d.progLen,
		SimTime:    d.simTime,
	}
}

func (d *driverImpl) Core() *core.Core {
	return d.core
}

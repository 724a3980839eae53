package api

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bfemu/core"
)

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine   sim.Engine
	freq     sim.Freq
	maxSteps uint64
}

// WithEngine sets the engine. Without one, the driver runs the core
// directly.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithMaxSteps bounds the number of executed operations per run.
func (b DriverBuilder) WithMaxSteps(n uint64) DriverBuilder {
	b.maxSteps = n
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	cb := core.NewBuilder().
		WithEngine(b.engine).
		WithMaxSteps(b.maxSteps)
	if b.freq != 0 {
		cb = cb.WithFreq(b.freq)
	}

	return &driverImpl{
		engine: b.engine,
		core:   cb.Build(name + ".Core"),
	}
}

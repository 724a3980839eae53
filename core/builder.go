package core

import (
	"io"

	"github.com/sarchlab/akita/v4/sim"
)

// Builder can create new cores.
type Builder struct {
	engine   sim.Engine
	freq     sim.Freq
	input    ByteSource
	output   io.Writer
	maxSteps uint64
}

// NewBuilder returns a builder with a 1 GHz clock, no input and discarded
// output.
func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine. A core that is only run with Run needs none.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithInput sets where read operations take their bytes from.
func (b Builder) WithInput(input ByteSource) Builder {
	b.input = input
	return b
}

// WithOutput sets where write operations send their bytes.
func (b Builder) WithOutput(output io.Writer) Builder {
	b.output = output
	return b
}

// WithMaxSteps bounds the number of executed operations. Zero means no
// bound.
func (b Builder) WithMaxSteps(n uint64) Builder {
	b.maxSteps = n
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	c := &Core{maxSteps: b.maxSteps}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.state = coreState{
		Tape:   NewTape(),
		Input:  b.input,
		Output: b.output,
	}

	if c.state.Input == nil {
		c.state.Input = NewEmptySource()
	}
	if c.state.Output == nil {
		c.state.Output = io.Discard
	}

	return c
}

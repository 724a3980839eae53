package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bfemu/api"
	"github.com/sarchlab/bfemu/core"
)

// MachineBuilder can build drivers wired to their input and output.
type MachineBuilder struct {
	cfg    Config
	input  io.Reader
	output io.Writer
	echo   io.Writer
}

// NewMachineBuilder returns a builder using the default config.
func NewMachineBuilder() MachineBuilder {
	return MachineBuilder{cfg: Default()}
}

// WithConfig sets the run options.
func (b MachineBuilder) WithConfig(cfg Config) MachineBuilder {
	b.cfg = cfg
	return b
}

// WithInput sets where program input comes from. Terminal input needs an
// *os.File.
func (b MachineBuilder) WithInput(r io.Reader) MachineBuilder {
	b.input = r
	return b
}

// WithOutput sets where program output goes.
func (b MachineBuilder) WithOutput(w io.Writer) MachineBuilder {
	b.output = w
	return b
}

// WithEcho sets where terminal keystrokes are echoed. Defaults to the
// output.
func (b MachineBuilder) WithEcho(w io.Writer) MachineBuilder {
	b.echo = w
	return b
}

// Build creates a driver. No program is mapped yet.
func (b MachineBuilder) Build(name string) (api.Driver, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	src, err := b.inputSource()
	if err != nil {
		return nil, err
	}

	db := api.DriverBuilder{}.WithMaxSteps(b.cfg.MaxSteps)
	if b.cfg.Mode == ModeSimulated {
		db = db.
			WithEngine(sim.NewSerialEngine()).
			WithFreq(b.cfg.Freq)
	}

	driver := db.Build(name)
	driver.FeedIn(src)
	if b.output != nil {
		driver.Collect(b.output)
	}

	slog.Debug("MachineBuilt",
		"Name", name,
		"Mode", b.cfg.Mode.String(),
		"Optimize", b.cfg.Optimize,
		"MaxSteps", b.cfg.MaxSteps,
	)

	return driver, nil
}

func (b MachineBuilder) inputSource() (core.ByteSource, error) {
	if b.input == nil {
		return core.NewEmptySource(), nil
	}

	mode := b.cfg.InputMode
	if mode == InputAuto {
		mode = DetectInputMode(b.input)
	}

	if mode == InputStream {
		return core.NewStreamSource(b.input), nil
	}

	f, ok := b.input.(*os.File)
	if !ok {
		return nil, fmt.Errorf("%w: terminal input needs a file, got %T",
			ErrInvalidConfig, b.input)
	}

	echo := b.echo
	if echo == nil {
		echo = b.output
	}

	return core.NewTerminalSource(f, echo), nil
}

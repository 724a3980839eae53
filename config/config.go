// Package config provides run options and builds ready-to-run machines.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sarchlab/akita/v4/sim"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Mode selects how the core is driven.
type Mode int

const (
	// ModeDirect runs the core in a plain loop.
	ModeDirect Mode = iota
	// ModeSimulated ticks the core on a serial simulation engine.
	ModeSimulated
)

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeSimulated:
		return "simulated"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// InputMode selects how program input is read.
type InputMode int

const (
	// InputAuto picks terminal input when stdin is a terminal.
	InputAuto InputMode = iota
	// InputTerminal reads single keystrokes in raw mode.
	InputTerminal
	// InputStream reads raw bytes.
	InputStream
)

var inputModeNames = map[InputMode]string{
	InputAuto:     "auto",
	InputTerminal: "terminal",
	InputStream:   "stream",
}

func (m InputMode) String() string {
	if name, ok := inputModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("InputMode(%d)", int(m))
}

// ParseInputMode converts a flag value into an InputMode.
func ParseInputMode(s string) (InputMode, error) {
	for m, name := range inputModeNames {
		if name == s {
			return m, nil
		}
	}
	return InputAuto, fmt.Errorf("%w: unknown input mode %q", ErrInvalidConfig, s)
}

// Config holds the options of one run.
type Config struct {
	Optimize  bool
	Mode      Mode
	InputMode InputMode

	// Freq is the core clock. Only used in simulated mode.
	Freq sim.Freq

	// MaxSteps bounds the executed operations. Zero means no bound.
	MaxSteps uint64
}

// Default returns an optimized direct run with automatic input detection.
func Default() Config {
	return Config{
		Optimize:  true,
		Mode:      ModeDirect,
		InputMode: InputAuto,
		Freq:      1 * sim.GHz,
	}
}

// Validate checks that every option holds a known value.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeDirect:
	case ModeSimulated:
		if c.Freq <= 0 {
			return fmt.Errorf("%w: simulated mode needs a positive frequency",
				ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown mode %v", ErrInvalidConfig, c.Mode)
	}

	if _, ok := inputModeNames[c.InputMode]; !ok {
		return fmt.Errorf("%w: unknown input mode %v", ErrInvalidConfig, c.InputMode)
	}

	return nil
}

// DetectInputMode returns InputTerminal when r is a terminal and InputStream
// otherwise.
func DetectInputMode(r io.Reader) InputMode {
	f, ok := r.(*os.File)
	if !ok {
		return InputStream
	}

	fd := f.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return InputTerminal
	}

	return InputStream
}

package core

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/term"
)

// ByteSource supplies program input one byte at a time. A read may block.
type ByteSource interface {
	ReadByte() (byte, error)
}

// FlushWriter is an output sink that buffers. The core flushes it before
// every read so prompts appear before the program waits for input.
type FlushWriter interface {
	io.Writer
	Flush() error
}

// NewStreamSource reads raw bytes from r.
func NewStreamSource(r io.Reader) ByteSource {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// NewEmptySource returns a source that has no input at all.
func NewEmptySource() ByteSource {
	return bytes.NewReader(nil)
}

const (
	keyInterrupt = 0x03
	keyEOF       = 0x04
)

// TerminalSource reads single characters from a live terminal. Each read
// switches the terminal into raw mode for the duration of one keystroke,
// echoes the character and yields its low byte.
type TerminalSource struct {
	in   *os.File
	r    *bufio.Reader
	echo io.Writer
}

// NewTerminalSource creates a source reading keystrokes from in and echoing
// them to echo.
func NewTerminalSource(in *os.File, echo io.Writer) *TerminalSource {
	return &TerminalSource{
		in:   in,
		r:    bufio.NewReader(in),
		echo: echo,
	}
}

// ReadByte blocks until a key is pressed. Ctrl-C and Ctrl-D end the input.
func (s *TerminalSource) ReadByte() (byte, error) {
	ch, err := s.readChar()
	if err != nil {
		return 0, err
	}

	switch ch {
	case keyInterrupt, keyEOF:
		return 0, io.EOF
	case '\r':
		ch = '\n'
	}

	if s.echo != nil {
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], ch)
		if _, err := s.echo.Write(buf[:n]); err != nil {
			return 0, err
		}
	}

	return byte(ch), nil
}

func (s *TerminalSource) readChar() (rune, error) {
	if s.r.Buffered() == 0 {
		fd := int(s.in.Fd())
		if old, err := term.MakeRaw(fd); err == nil {
			defer func() { _ = term.Restore(fd, old) }()
		}
	}

	ch, _, err := s.r.ReadRune()
	return ch, err
}

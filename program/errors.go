package program

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when the source text cannot be read.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrUnmatchedOpeningBracket is returned when a '[' is never closed.
	ErrUnmatchedOpeningBracket = errors.New("unmatched opening bracket")

	// ErrUnmatchedClosingBracket is returned when a ']' has no '[' to close.
	ErrUnmatchedClosingBracket = errors.New("unmatched closing bracket")

	// ErrInternal signals a broken jump pairing after parsing. It must not
	// happen for programs produced by Parse.
	ErrInternal = errors.New("internal index error")
)

// SyntaxError locates a bracket error in the source text.
type SyntaxError struct {
	Err    error
	Offset int // byte offset of the offending bracket
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

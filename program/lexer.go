package program

import "strings"

// alphabet lists the only meaningful source symbols. Everything else is a
// comment.
const alphabet = "+-<>,.[]"

// Lexer walks source text and yields instruction symbols only. It is not
// restartable; create a new one to scan again.
type Lexer struct {
	src string
	pos int // index of the next byte to inspect
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Next returns the next instruction symbol together with its byte offset in
// the source. ok is false once the source is exhausted.
//
// Scanning bytes is safe for UTF-8 input because multi-byte sequences never
// contain ASCII bytes.
func (l *Lexer) Next() (sym byte, offset int, ok bool) {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++
		if strings.IndexByte(alphabet, c) >= 0 {
			return c, l.pos - 1, true
		}
	}

	return 0, len(l.src), false
}

// Filter returns the instruction symbols of src with everything else removed.
func Filter(src string) string {
	var sb strings.Builder
	l := NewLexer(src)
	for sym, _, ok := l.Next(); ok; sym, _, ok = l.Next() {
		sb.WriteByte(sym)
	}
	return sb.String()
}

package core

// minTapeSlack is the number of spare zero cells kept on each side of the
// live region after a reallocation.
const minTapeSlack = 16

// Tape is a byte tape that grows on demand at either end and never shrinks.
//
// The live cells are buf[lo:hi]. Cells of buf outside that range are always
// zero, so growing into spare room only moves a bound.
type Tape struct {
	buf    []byte
	lo, hi int
	pos    int // physical index of the head
}

// NewTape returns a tape holding a single zero cell under the head.
func NewTape() *Tape {
	t := &Tape{buf: make([]byte, 2*minTapeSlack+1)}
	t.lo = minTapeSlack
	t.hi = t.lo + 1
	t.pos = t.lo
	return t
}

// Len returns the number of cells on the tape.
func (t *Tape) Len() int {
	return t.hi - t.lo
}

// Head returns the index of the current cell, counted from the low end.
func (t *Tape) Head() int {
	return t.pos - t.lo
}

// Get returns the current cell.
func (t *Tape) Get() byte {
	return t.buf[t.pos]
}

// Set overwrites the current cell.
func (t *Tape) Set(v byte) {
	t.buf[t.pos] = v
}

// Move shifts the head by delta cells, growing the tape if the head would
// leave it.
func (t *Tape) Move(delta int) {
	t.pos = t.index(delta)
}

// AddAt adds v to the cell delta away from the head, growing the tape if
// needed. The head stays on the same cell.
func (t *Tape) AddAt(delta int, v byte) {
	idx := t.index(delta)
	t.buf[idx] += v
}

// Cells returns a copy of the tape contents.
func (t *Tape) Cells() []byte {
	cells := make([]byte, t.Len())
	copy(cells, t.buf[t.lo:t.hi])
	return cells
}

// index returns the physical index of the cell delta away from the head,
// growing the tape so that the cell exists.
func (t *Tape) index(delta int) int {
	target := t.pos + delta
	switch {
	case target < t.lo:
		t.growLow(t.lo - target)
	case target >= t.hi:
		t.growHigh(target - t.hi + 1)
	default:
		return target
	}

	target = t.pos + delta
	if target < t.lo || target >= t.hi {
		panic(ErrInternal.Error() + ": tape index out of range after growth")
	}
	return target
}

func (t *Tape) growLow(n int) {
	if t.lo >= n {
		t.lo -= n
		return
	}
	t.realloc(n, 0)
}

func (t *Tape) growHigh(n int) {
	if t.hi+n <= len(t.buf) {
		t.hi += n
		return
	}
	t.realloc(0, n)
}

// realloc moves the live cells into a new buffer with low extra zero cells
// in front and high extra zero cells behind, plus fresh slack on both sides.
func (t *Tape) realloc(low, high int) {
	size := t.Len() + low + high
	slack := max(size, minTapeSlack)

	buf := make([]byte, slack+size+slack)
	start := slack + low
	copy(buf[start:], t.buf[t.lo:t.hi])

	t.pos += start - t.lo
	t.buf = buf
	t.lo = slack
	t.hi = slack + size
}

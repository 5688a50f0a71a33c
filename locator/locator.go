// Package locator builds the packed field paths that guests hand to the
// nested field accessors. A path is a sequence of little-endian int32 steps,
// each a field code or an array index.
package locator

import "encoding/binary"

const (
	// Capacity is the size of the packed buffer in bytes.
	Capacity = 64
	stepSize = 4
	// MaxDepth is the number of steps a locator can hold.
	MaxDepth = Capacity / stepSize
)

// Locator is a fixed capacity path builder. The zero value is empty and
// ready to use.
type Locator struct {
	buf [Capacity]byte
	n   int
}

// New packs the given steps, stopping silently at capacity.
func New(steps ...int32) *Locator {
	l := &Locator{}
	for _, s := range steps {
		if !l.Pack(s) {
			break
		}
	}
	return l
}

// Pack appends a step. It returns false when the locator is full.
func (l *Locator) Pack(step int32) bool {
	if l.n+stepSize > Capacity {
		return false
	}
	binary.LittleEndian.PutUint32(l.buf[l.n:], uint32(step))
	l.n += stepSize
	return true
}

// RepackLast replaces the most recent step, keeping the path prefix. It
// returns false when nothing has been packed.
func (l *Locator) RepackLast(step int32) bool {
	if l.n == 0 {
		return false
	}
	binary.LittleEndian.PutUint32(l.buf[l.n-stepSize:], uint32(step))
	return true
}

// Addr returns the packed bytes.
func (l *Locator) Addr() []byte { return l.buf[:l.n] }

// NumPackedBytes is the length of Addr.
func (l *Locator) NumPackedBytes() int { return l.n }

// Len returns the number of packed steps.
func (l *Locator) Len() int { return l.n / stepSize }

// Reset empties the locator.
func (l *Locator) Reset() { l.n = 0 }

// Steps decodes a packed path. It fails on empty input or a length that is
// not a whole number of steps, and never reads past the last step.
func Steps(b []byte) ([]int32, bool) {
	if len(b) == 0 || len(b)%stepSize != 0 {
		return nil, false
	}
	out := make([]int32, len(b)/stepSize)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[i*stepSize:]))
	}
	return out, true
}

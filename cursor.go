package weighted

import (
	"iter"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
)

// Cursor is a read-only position in a distribution's insertion order.
// The zero Cursor is already at its end.
type Cursor[K comparable] struct {
	d   *Distribution[K]
	pos int
}

// Begin returns a cursor at the first key.
func (d *Distribution[K]) Begin() Cursor[K] {
	return Cursor[K]{d: d}
}

// End returns a cursor one past the last key currently in d.
func (d *Distribution[K]) End() Cursor[K] {
	return Cursor[K]{d: d, pos: len(d.entries)}
}

func (c Cursor[K]) valid() bool {
	return c.d != nil && c.pos < len(c.d.entries)
}

// Key returns the key under the cursor, or ErrOutOfRange at the end.
func (c Cursor[K]) Key() (K, error) {
	if !c.valid() {
		var zero K
		return zero, errors.Wrap(ErrOutOfRange, "", j.KV("position", c.pos))
	}
	return c.d.entries[c.pos].key, nil
}

// Next returns the cursor advanced by one. Advancing the end cursor
// returns it unchanged.
func (c Cursor[K]) Next() Cursor[K] {
	if c.valid() {
		c.pos++
	}
	return c
}

// Equal reports whether both cursors point at the same position of the
// same distribution.
func (c Cursor[K]) Equal(o Cursor[K]) bool {
	return c.d == o.d && c.pos == o.pos
}

// Keys yields the keys of d in insertion order. Each call starts over.
func (d *Distribution[K]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for c := d.Begin(); c.valid(); c = c.Next() {
			if !yield(c.d.entries[c.pos].key) {
				return
			}
		}
	}
}

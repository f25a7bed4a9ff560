package internal

import "sync/atomic"

// Cell is a single-slot atomic container for one input or last-output
// value. Go's sync/atomic.Value requires every Store to carry the same
// concrete type, which a bare any-typed value cannot guarantee across
// calls (e.g. storing an int then a string panics); boxedValue gives every
// Store a fixed concrete shape so arbitrary, possibly-nil values can be
// held.
type Cell struct {
	v atomic.Value
}

type boxedValue struct {
	val any
}

// NewCell creates a Cell holding the given initial value. Node construction
// seeds each input Cell with the zero value of that input's Go type, so a
// newly built node's first, default-initialized evaluation never has to
// distinguish "never written" from "written but empty."
func NewCell(initial any) *Cell {
	c := &Cell{}
	c.v.Store(boxedValue{val: initial})
	return c
}

// Load reads the current value (acquire/consume ordering, per §3).
func (c *Cell) Load() any {
	return c.v.Load().(boxedValue).val
}

// Store writes a new value (release ordering).
func (c *Cell) Store(val any) {
	c.v.Store(boxedValue{val: val})
}

// Swap writes a new value and returns the previous one (acquire-release
// ordering). Used by OnChangePolicy to compare the newly propagated value
// against the last one it saw.
func (c *Cell) Swap(val any) any {
	old := c.v.Swap(boxedValue{val: val})
	return old.(boxedValue).val
}

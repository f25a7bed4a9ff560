package internal

// Policy decides, each time a Node's function produces a new value,
// whether that value should be propagated to its dependents. Grounded on
// calcgraph.h's Always/OnChange propagate-policy structs; no teacher file
// covers this, since the teacher's reactive model always recomputes and
// diffs via signal equality elsewhere rather than through a pluggable
// per-node strategy.
type Policy interface {
	ShouldPropagate(val any) bool
}

// AlwaysPolicy always propagates.
type AlwaysPolicy struct{}

// ShouldPropagate always returns true.
func (AlwaysPolicy) ShouldPropagate(val any) bool { return true }

// OnChangePolicy propagates only when the new value differs, by equality,
// from the last value it propagated. It runs only under the owning node's
// exclusive lock (§4.6), so the last-value cell needs no locking of its
// own beyond what that guarantees.
//
// OnChangePolicy requires RET to be comparable with ==; a node built over
// a non-comparable return type (a slice or map, say) must use
// AlwaysPolicy instead.
type OnChangePolicy struct {
	last *Cell
}

// NewOnChangePolicy returns an OnChangePolicy whose "last propagated
// value" starts at zero, matching calcgraph.h's default-constructed
// Value<RET> last — including its edge case that a first propagated value
// equal to the type's zero value is itself suppressed.
func NewOnChangePolicy(zero any) *OnChangePolicy {
	return &OnChangePolicy{last: NewCell(zero)}
}

// ShouldPropagate exchanges val into the last-seen cell and reports
// whether it differs from what was there before.
func (p *OnChangePolicy) ShouldPropagate(val any) bool {
	old := p.last.Swap(val)
	return old != val
}

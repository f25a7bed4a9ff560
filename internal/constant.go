package internal

// Constant is a Connectable with a fixed value. Connecting it writes the
// value directly into the target Input's cell outside of any tick and
// registers no dependent; Constants never schedule anything.
//
// Grounded on calcgraph.h's Constant<RET>; the teacher repo has no
// equivalent, since every value in its reactive model flows through a
// Signal rather than ever being wired in as a bare fixed value.
type Constant struct {
	value any
}

// NewConstant returns a Constant holding value.
func NewConstant(value any) *Constant {
	return &Constant{value: value}
}

// Connect writes the constant's value into in's cell immediately.
func (c *Constant) Connect(in Input) {
	in.cell.Store(c.value)
}

// Disconnect is a no-op: Constants register no dependent to remove.
func (c *Constant) Disconnect(in Input) {}

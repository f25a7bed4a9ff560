package internal

// Input is a lightweight reference to a value cell and, optionally, a
// strong handle to the Node that owns it (nil for a plain external sink
// cell). Two Inputs are equal iff they reference the same cell.
type Input struct {
	cell  *Cell
	owner *Work
}

// NewInput builds an Input over an external cell with no owning node
// (e.g. a sink an embedder reads directly, or a node parameter fed from
// outside the graph). Appending to it stores the value but schedules
// nothing.
func NewInput(cell *Cell) Input {
	return Input{cell: cell}
}

// Append stores v into the Input's cell and, if it has an owning Node,
// schedules that Node on g.
func (in Input) Append(g *Graph, v any) {
	in.cell.Store(v)
	if in.owner != nil {
		g.Schedule(in.owner)
	}
}

// Equal reports whether in and other reference the same cell.
func (in Input) Equal(other Input) bool {
	return in.cell == other.cell
}

// Connectable is anything a downstream Input can be wired to: a Node's
// output, or a Constant.
type Connectable interface {
	Connect(in Input)
	Disconnect(in Input)
}

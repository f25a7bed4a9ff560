// Package dataflow is a concurrent dataflow evaluator: a directed graph of
// computation nodes, each wrapping a pure function over typed inputs,
// re-evaluated as external agents inject values at input slots. Multiple
// goroutines may share a Graph; mutation of inputs and topology may occur
// concurrently with evaluation.
//
// The generic surface here is a thin, type-safe wrapper over the untyped
// engine in the internal package, in the same spirit as the teacher
// repo's sig.go wrapping its internal runtime via an as[T] helper.
package dataflow

import (
	"sync/atomic"

	"github.com/wkern/dataflow/internal"
)

// as recovers a typed value from the internal engine's any-typed storage,
// treating an untyped nil as the type's zero value (the state every input
// cell starts in before anything has written to it).
func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Stats mirrors internal.Stats: all-uint16 counters reset at the start of
// every Tick.
type Stats = internal.Stats

// Graph holds the global work queue, id counter and sentinel described in
// §3/§4. Create one with NewGraph and share it across as many goroutines
// as needed.
type Graph struct {
	g *internal.Graph
}

// NewGraph returns a new, empty Graph.
func NewGraph() *Graph {
	return &Graph{g: internal.NewGraph()}
}

// Tick drains the queue and evaluates it once, per §4.3. If stats is
// non-nil it is reset and filled in. Reports whether any work ran.
func (g *Graph) Tick(stats *Stats) bool {
	return g.g.Tick(stats)
}

// EvaluateRepeatedly ticks g in a loop until stop reports true, yielding
// between empty ticks. Intended to run in its own goroutine, per §5's
// "typical deployment runs one evaluator thread in a busy loop."
func EvaluateRepeatedly(g *Graph, stop *atomic.Bool) {
	internal.EvaluateRepeatedly(g.g, stop.Load)
}

// Input is a typed reference to a value cell, plus (for a node's own
// input slots) a strong handle to the owning node for scheduling. Two
// Inputs are equal iff they reference the same cell.
type Input[T any] struct {
	in internal.Input
}

// Append stores v into the Input's cell and, if it has an owning node,
// schedules that node on g.
func (i Input[T]) Append(g *Graph, v T) {
	i.in.Append(g.g, v)
}

// Equal reports whether i and o reference the same cell.
func (i Input[T]) Equal(o Input[T]) bool {
	return i.in.Equal(o.in)
}

// Cell is a plain, externally-owned value slot — a sink an embedder reads
// directly, not tied to any node. Writing to it via AsInput().Append
// never schedules anything.
type Cell[T any] struct {
	c *internal.Cell
}

// NewCell returns a Cell seeded with initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{c: internal.NewCell(initial)}
}

// Load reads the cell's current value.
func (c *Cell[T]) Load() T {
	return as[T](c.c.Load())
}

// AsInput returns an Input referencing this cell, with no owning node.
func (c *Cell[T]) AsInput() Input[T] {
	return Input[T]{in: internal.NewInput(c.c)}
}

// Connectable is anything whose output of type T a downstream Input[T]
// can be wired to: a node built by NewNode0..3, or a Constant.
type Connectable[T any] interface {
	Connect(in Input[T])
	Disconnect(in Input[T])
}

// Constant is a Connectable with a fixed value: connecting it writes the
// value once, immediately, and never participates in scheduling (§4.7).
type Constant[T any] struct {
	c *internal.Constant
}

// NewConstant returns a Constant holding value.
func NewConstant[T any](value T) *Constant[T] {
	return &Constant[T]{c: internal.NewConstant(value)}
}

// Connect writes the constant's value into in's cell.
func (c *Constant[T]) Connect(in Input[T]) { c.c.Connect(in.in) }

// Disconnect is a no-op.
func (c *Constant[T]) Disconnect(in Input[T]) { c.c.Disconnect(in.in) }

// Propagation selects a node's propagation policy at construction time.
// Pass one of Always(), OnChange(), to NewNode0..3; omitting it defaults
// to Always.
type Propagation[T any] struct {
	newPolicy func() internal.Policy
}

// Always makes a node propagate every computed value unconditionally.
// This is the default when no Propagation option is given.
func Always[T any]() Propagation[T] {
	return Propagation[T]{newPolicy: func() internal.Policy { return internal.AlwaysPolicy{} }}
}

// OnChange makes a node propagate only when the computed value differs,
// by ==, from the last value it propagated. T must be a comparable type.
func OnChange[T any]() Propagation[T] {
	return Propagation[T]{newPolicy: func() internal.Policy {
		var zero T
		return internal.NewOnChangePolicy(zero)
	}}
}

func resolvePolicy[T any](opts []Propagation[T]) internal.Policy {
	if len(opts) > 0 {
		return opts[0].newPolicy()
	}
	return internal.AlwaysPolicy{}
}

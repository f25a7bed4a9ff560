package dataflow

import "github.com/wkern/dataflow/internal"

// Go generics cannot express a variadic template parameter pack the way
// calcgraph.h's NodeBuilder<PROPAGATE> does, so the single "build node"
// operation of §6 is realized here as one constructor per input arity.
// NewNode0..NewNode3 cover every arity this spec's own scenarios exercise
// (0: a node with no inputs, evaluated once; up to 3: order_manager's
// price/signal/current-position inputs in the weak-feedback example).
//
// Passing nil for an upstream Connectable realizes calcgraph.h's
// unconnected<T>() sentinel: the input simply isn't wired to anything at
// construction time, and callers drive it via Input.Append instead.

// Node0 is a node with no upstream inputs. It has no input cells, so
// nothing can append to it: NewNode0 schedules it once, it computes fn()
// at the next tick, and it is never rescheduled after that, which makes
// it a constant-like computed value. Most graphs start from Node1 sources
// fed by external Input.Append calls instead.
type Node0[RET any] struct {
	n *internal.Node
}

// NewNode0 builds a node with no inputs, computing fn() once it is
// scheduled.
func NewNode0[RET any](g *Graph, fn func() RET, opts ...Propagation[RET]) *Node0[RET] {
	raw := func(vals []any) any { return fn() }
	n := internal.NewNode(g.g, raw, nil, resolvePolicy(opts))
	g.g.Schedule(&n.Work)
	return &Node0[RET]{n: n}
}

// Connect wires this node's output to in as a strong dependent.
func (nd *Node0[RET]) Connect(in Input[RET]) { nd.n.Connect(in.in) }

// ConnectWeak wires this node's output to in as a weak dependent (§4.6):
// in's cell is still updated, but in's owner is never rescheduled.
func (nd *Node0[RET]) ConnectWeak(in Input[RET]) { nd.n.ConnectWeak(in.in) }

// Disconnect removes in from this node's dependents.
func (nd *Node0[RET]) Disconnect(in Input[RET]) { nd.n.Disconnect(in.in) }

// Node1 is a node with one input.
type Node1[A, RET any] struct {
	n *internal.Node
}

// NewNode1 builds a node computing fn(a) whenever scheduled, wiring a (if
// non-nil) as its input's upstream Connectable.
func NewNode1[A, RET any](g *Graph, fn func(A) RET, a Connectable[A], opts ...Propagation[RET]) *Node1[A, RET] {
	var zeroA A
	raw := func(vals []any) any { return fn(as[A](vals[0])) }
	n := internal.NewNode(g.g, raw, []any{zeroA}, resolvePolicy(opts))
	nd := &Node1[A, RET]{n: n}
	if a != nil {
		a.Connect(nd.Input0())
	}
	g.g.Schedule(&n.Work)
	return nd
}

// Input0 returns the Input handle for this node's sole parameter.
func (nd *Node1[A, RET]) Input0() Input[A] { return Input[A]{in: nd.n.Input(0)} }

func (nd *Node1[A, RET]) Connect(in Input[RET])      { nd.n.Connect(in.in) }
func (nd *Node1[A, RET]) ConnectWeak(in Input[RET])  { nd.n.ConnectWeak(in.in) }
func (nd *Node1[A, RET]) Disconnect(in Input[RET])   { nd.n.Disconnect(in.in) }

// Node2 is a node with two inputs.
type Node2[A, B, RET any] struct {
	n *internal.Node
}

// NewNode2 builds a node computing fn(a, b) whenever scheduled.
func NewNode2[A, B, RET any](g *Graph, fn func(A, B) RET, a Connectable[A], b Connectable[B], opts ...Propagation[RET]) *Node2[A, B, RET] {
	var zeroA A
	var zeroB B
	raw := func(vals []any) any { return fn(as[A](vals[0]), as[B](vals[1])) }
	n := internal.NewNode(g.g, raw, []any{zeroA, zeroB}, resolvePolicy(opts))
	nd := &Node2[A, B, RET]{n: n}
	if a != nil {
		a.Connect(nd.Input0())
	}
	if b != nil {
		b.Connect(nd.Input1())
	}
	g.g.Schedule(&n.Work)
	return nd
}

func (nd *Node2[A, B, RET]) Input0() Input[A] { return Input[A]{in: nd.n.Input(0)} }
func (nd *Node2[A, B, RET]) Input1() Input[B] { return Input[B]{in: nd.n.Input(1)} }

func (nd *Node2[A, B, RET]) Connect(in Input[RET])     { nd.n.Connect(in.in) }
func (nd *Node2[A, B, RET]) ConnectWeak(in Input[RET]) { nd.n.ConnectWeak(in.in) }
func (nd *Node2[A, B, RET]) Disconnect(in Input[RET])  { nd.n.Disconnect(in.in) }

// Node3 is a node with three inputs — order_manager's price/signal/
// current-position shape in original_source/example/example.cpp.
type Node3[A, B, C, RET any] struct {
	n *internal.Node
}

// NewNode3 builds a node computing fn(a, b, c) whenever scheduled.
func NewNode3[A, B, C, RET any](g *Graph, fn func(A, B, C) RET, a Connectable[A], b Connectable[B], c Connectable[C], opts ...Propagation[RET]) *Node3[A, B, C, RET] {
	var zeroA A
	var zeroB B
	var zeroC C
	raw := func(vals []any) any { return fn(as[A](vals[0]), as[B](vals[1]), as[C](vals[2])) }
	n := internal.NewNode(g.g, raw, []any{zeroA, zeroB, zeroC}, resolvePolicy(opts))
	nd := &Node3[A, B, C, RET]{n: n}
	if a != nil {
		a.Connect(nd.Input0())
	}
	if b != nil {
		b.Connect(nd.Input1())
	}
	if c != nil {
		c.Connect(nd.Input2())
	}
	g.g.Schedule(&n.Work)
	return nd
}

func (nd *Node3[A, B, C, RET]) Input0() Input[A] { return Input[A]{in: nd.n.Input(0)} }
func (nd *Node3[A, B, C, RET]) Input1() Input[B] { return Input[B]{in: nd.n.Input(1)} }
func (nd *Node3[A, B, C, RET]) Input2() Input[C] { return Input[C]{in: nd.n.Input(2)} }

func (nd *Node3[A, B, C, RET]) Connect(in Input[RET])     { nd.n.Connect(in.in) }
func (nd *Node3[A, B, C, RET]) ConnectWeak(in Input[RET]) { nd.n.ConnectWeak(in.in) }
func (nd *Node3[A, B, C, RET]) Disconnect(in Input[RET])  { nd.n.Disconnect(in.in) }

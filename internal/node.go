package internal

import "runtime"

// Node specializes Work: it wraps a pure function over a fixed number of
// input cells, a propagation policy, and the list of downstream Inputs to
// notify when the policy allows it.
//
// Grounded on the teacher's ReactiveNode (internal/node.go: an fn field
// plus a subscriber list) and Computed (internal/computed.go: a Work-like
// node wrapping a recomputation), combined with calcgraph.h's Node
// template for the eval/propagate/schedule sequencing. Height-based
// ordering and the owner-tree parent/sibling links from the teacher's
// version are dropped entirely: this spec orders strictly by id via the
// per-tick heap, not by a precomputed tree height, and nodes here have no
// ownership tree to tear down.
type Node struct {
	Work

	fn       func(vals []any) any
	inputs   []*Cell
	policy   Policy
	depsHead *dependentLink
}

// NewNode constructs a Node with numInputs input cells seeded from
// initial (one zero value per parameter, so a node's first,
// default-initialized evaluation never type-asserts against an untyped
// nil), a pure function, and a propagation policy. The caller is
// responsible for wiring upstream Connectables to the returned Node's
// inputs and scheduling it once, per the builder lifecycle in §3.
func NewNode(g *Graph, fn func(vals []any) any, initial []any, policy Policy) *Node {
	n := &Node{
		fn:     fn,
		inputs: make([]*Cell, len(initial)),
		policy: policy,
	}
	for i, v := range initial {
		n.inputs[i] = NewCell(v)
	}
	n.id = g.nextID()
	n.evalFn = n.eval
	return n
}

// Input returns the Input handle for the node's i'th parameter.
func (n *Node) Input(i int) Input {
	return Input{cell: n.inputs[i], owner: &n.Work}
}

// Connect adds in as a strong (scheduling) dependent: once this node
// propagates a new value, in's cell is updated and, if in has an owning
// node, that node is scheduled.
func (n *Node) Connect(in Input) {
	n.spinLock()
	n.depsHead = &dependentLink{input: in, next: n.depsHead}
	n.unlock()
}

// ConnectWeak adds in as a weak dependent: its cell is still updated on
// propagation, but its owner is never rescheduled. This is the "dedicated
// connect path" §4.6 offers for feedback edges — a node whose output
// wires back into one of its own inputs to carry state across ticks
// without immediately waking itself back up.
func (n *Node) ConnectWeak(in Input) {
	n.spinLock()
	n.depsHead = &dependentLink{input: in, weak: true, next: n.depsHead}
	n.unlock()
}

// Disconnect removes in from the dependents list, if present. Silent
// no-op if in was never connected.
func (n *Node) Disconnect(in Input) {
	n.spinLock()
	var prev *dependentLink
	for cur := n.depsHead; cur != nil; cur = cur.next {
		if cur.input.Equal(in) {
			if prev == nil {
				n.depsHead = cur.next
			} else {
				prev.next = cur.next
			}
			break
		}
		prev = cur
	}
	n.unlock()
}

// spinLock acquires the node's lock bit, yielding the goroutine between
// attempts. Connect/Disconnect contend with eval over the same lock bit
// that guards queue membership, exactly as §4.5 specifies: concurrent
// topology changes delay that node's tick, and vice versa.
func (n *Node) spinLock() {
	for !n.tryLock() {
		runtime.Gosched()
	}
}

// eval is Work.evalFn for a Node: lock-and-dequeue, snapshot inputs, run
// the function, apply the propagation policy, and on success store into
// and schedule every strong dependent.
func (n *Node) eval(ws *WorkState) {
	if !n.trylockAndDequeue() {
		// Someone else is mid-evaluation of this node. Re-enter the
		// scheduling decision rather than spin: if this node's id is
		// already past the tick's current id, it simply re-enters the
		// heap and is retried later this tick; otherwise it waits for
		// next tick.
		ws.AddToQueue(&n.Work)
		return
	}
	defer n.unlock()

	vals := make([]any, len(n.inputs))
	for i, c := range n.inputs {
		vals[i] = c.Load()
	}

	val := n.fn(vals)

	if !n.policy.ShouldPropagate(val) {
		return
	}

	for d := n.depsHead; d != nil; d = d.next {
		d.input.cell.Store(val)
		if !d.weak && d.input.owner != nil {
			ws.AddToQueue(d.input.owner)
		}
	}
}

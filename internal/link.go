package internal

// dependentLink is one entry in a Node's singly-linked list of downstream
// Input slots (§3: "a singly-linked list of downstream Input slots").
// Adapted from the teacher's DependencyLink (a doubly circular-linked
// list node for the signal/subscriber relationship); simplified to a
// singly-linked list, since this spec's dependents list is only ever
// walked forward during eval and mutated wholesale under the node's lock,
// never spliced mid-list concurrently from both ends.
type dependentLink struct {
	input Input
	// weak marks this edge as produced via ConnectWeak: eval still stores
	// the computed value into this edge's cell, but never reschedules its
	// owner. See §4.6's weak-propagation resolution.
	weak bool
	next *dependentLink
}

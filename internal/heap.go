package internal

import "container/heap"

// WorkState is the per-tick scratch state described in §3/§4.4: a
// min-heap of Work ordered by ascending id, plus the tick's accounting
// counters and the id of the Work currently being evaluated.
//
// Grounded on grailbio-reflow/sched/scheduler.go's container/heap usage
// (heap.Push/heap.Pop/heap.Fix over a slice of schedulable items). The
// teacher's own internal/heap.go (PriorityHeap: an array of doubly
// circular-linked buckets, one per integer "height") was not adapted
// directly: that design assumes the key space (tree height) is small and
// bounded, so it can afford one bucket per possible key. This spec's key
// is a monotonically increasing Work id with no upper bound, so a
// bucket-array sized to the id range would grow without limit over a
// long-running graph — a regression the teacher's design never had to
// consider. container/heap, as used elsewhere in the pack, is the
// grounded substitute for an unbounded key space.
type WorkState struct {
	g         *Graph
	h         workHeap
	stats     *Stats
	currentID uint64
}

type workHeap []*Work

func (h workHeap) Len() int            { return len(h) }
func (h workHeap) Less(i, j int) bool  { return h[i].id < h[j].id }
func (h workHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *workHeap) Push(x any)         { *h = append(*h, x.(*Work)) }
func (h *workHeap) Pop() any {
	old := *h
	n := len(old)
	w := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return w
}

// AddToQueue implements §4.4: a Work whose id has already passed (or
// equals) the tick's current id is deferred to the graph queue for next
// tick; a Work with a strictly greater id is pushed into this tick's heap,
// taking the additional strong reference that balances the release when
// it is later popped.
func (ws *WorkState) AddToQueue(w *Work) {
	if w.id <= ws.currentID {
		ws.g.Schedule(w)
		if ws.stats != nil {
			ws.stats.PushedGraph++
		}
		return
	}
	w.addRef()
	heap.Push(&ws.h, w)
	if ws.stats != nil {
		ws.stats.PushedHeap++
	}
}

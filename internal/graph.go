package internal

import (
	"container/heap"
	"log"
	"runtime"
	"sync/atomic"
)

// Stats holds the per-tick counters from §6: all reset at the start of
// every Tick.
type Stats struct {
	Queued      uint16
	Worked      uint16
	Duplicates  uint16
	PushedGraph uint16
	PushedHeap  uint16
}

// Graph owns the id counter, the lock-free work queue head, and the
// sentinel tail Work whose evaluation is a fatal error.
//
// Grounded on the teacher's Runtime (internal/runtime.go: one aggregator
// struct wiring the queue, id space and tick entrypoint together) and on
// calcgraph.h's Graph class for the exact schedule/tick algorithms. The
// teacher's Runtime guards Flush/Schedule with a sync.Mutex; that is
// dropped here, since making the enqueue path lock-free is the explicit
// point of this spec (§1) — a mutex-guarded flush would defeat it.
type Graph struct {
	ids       atomic.Uint64
	head      atomic.Pointer[Work]
	tombstone Work
}

// NewGraph returns an empty Graph, queue head pointing at the sentinel.
func NewGraph() *Graph {
	g := &Graph{}
	g.tombstone.evalFn = func(ws *WorkState) {
		log.Fatal("dataflow: tombstone work evaluated; work queue is corrupted")
	}
	g.head.Store(&g.tombstone)
	return g
}

func (g *Graph) nextID() uint64 {
	return g.ids.Add(1)
}

// Schedule implements §4.2: append w to the graph's work queue. If w is
// already queued, this is a no-op.
func (g *Graph) Schedule(w *Work) {
	w.addRef()
	firstTime := true
	for {
		current := w.next.Load()
		if firstTime && current != nil {
			// already queued by someone else; give back the reference we
			// speculatively took.
			w.dropRef()
			return
		}
		head := g.head.Load()
		if !w.next.CompareAndSwap(current, head) {
			continue
		}
		if g.head.CompareAndSwap(head, w) {
			return
		}
		firstTime = false
	}
}

// Tick implements §4.3: drain the queue into a per-tick heap and evaluate
// in ascending-id order, coalescing duplicates produced by fan-in. Returns
// whether any Work ran. If stats is non-nil it is reset to zero and then
// filled in.
func (g *Graph) Tick(stats *Stats) bool {
	if stats != nil {
		*stats = Stats{}
	}

	head := g.head.Swap(&g.tombstone)
	if head == &g.tombstone {
		return false
	}

	ws := &WorkState{g: g, stats: stats}
	for w := head; w != &g.tombstone; w = w.next.Load() {
		ws.h = append(ws.h, w)
		if stats != nil {
			stats.Queued++
		}
	}
	heap.Init(&ws.h)

	for ws.h.Len() > 0 {
		w := heap.Pop(&ws.h).(*Work)
		for ws.h.Len() > 0 && ws.h[0].id == w.id {
			dup := heap.Pop(&ws.h).(*Work)
			dup.dropRef()
			if stats != nil {
				stats.Duplicates++
			}
		}
		ws.currentID = w.id
		w.evalFn(ws)
		if stats != nil {
			stats.Worked++
		}
		w.dropRef()
	}
	return true
}

// EvaluateRepeatedly ticks g until stop reports true, yielding the
// goroutine between empty ticks. Grounded on calcgraph.h's
// evaluate_repeatedly free function.
func EvaluateRepeatedly(g *Graph, stop func() bool) {
	for !stop() {
		for g.Tick(nil) {
		}
		runtime.Gosched()
	}
}

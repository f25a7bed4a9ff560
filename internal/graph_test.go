package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleDedup(t *testing.T) {
	g := NewGraph()
	n := NewNode(g, func(vals []any) any { return nil }, nil, AlwaysPolicy{})

	assert.EqualValues(t, 0, n.RefCount())

	g.Schedule(&n.Work)
	firstCount := n.RefCount()
	assert.EqualValues(t, 1, firstCount)

	// scheduling an already-queued Work is a no-op: no extra reference
	// taken, per §4.2's "already queued" short-circuit.
	g.Schedule(&n.Work)
	assert.EqualValues(t, firstCount, n.RefCount())

	var stats Stats
	assert.True(t, g.Tick(&stats))
	assert.EqualValues(t, 1, stats.Queued)
	assert.EqualValues(t, 1, stats.Worked)

	// the reference taken by Schedule is dropped once the Work is
	// retired from the tick's heap.
	assert.EqualValues(t, 0, n.RefCount())
}

func TestTickCoalescesDuplicates(t *testing.T) {
	g := NewGraph()

	runs := 0
	upA := NewNode(g, func(vals []any) any { return 1 }, nil, AlwaysPolicy{})
	upB := NewNode(g, func(vals []any) any { return 2 }, nil, AlwaysPolicy{})
	sinkN := NewNode(g, func(vals []any) any { runs++; return nil }, []any{0, 0}, AlwaysPolicy{})

	upA.Connect(Input{cell: sinkN.inputs[0], owner: &sinkN.Work})
	upB.Connect(Input{cell: sinkN.inputs[1], owner: &sinkN.Work})

	g.Schedule(&upA.Work)
	g.Schedule(&upB.Work)

	var stats Stats
	assert.True(t, g.Tick(&stats))
	assert.EqualValues(t, 2, stats.Queued)
	assert.EqualValues(t, 3, stats.Worked) // upA, upB, sinkN
	assert.Equal(t, 1, runs)

	// the sink is pushed to the heap twice (once per upstream) within
	// this single tick; exactly one of those pushes should have been
	// recorded as a duplicate.
	assert.EqualValues(t, 1, stats.Duplicates)
}

func TestReferenceSafetyAfterTick(t *testing.T) {
	g := NewGraph()
	n1 := NewNode(g, func(vals []any) any { return nil }, nil, AlwaysPolicy{})
	n2 := NewNode(g, func(vals []any) any { return nil }, nil, AlwaysPolicy{})

	g.Schedule(&n1.Work)
	g.Schedule(&n2.Work)
	assert.True(t, g.Tick(nil))

	assert.EqualValues(t, 0, n1.RefCount())
	assert.EqualValues(t, 0, n2.RefCount())
	assert.False(t, n1.queued())
	assert.False(t, n2.queued())
}

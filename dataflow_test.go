package dataflow

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickEmptyQueue(t *testing.T) {
	t.Run("idempotent empty tick", func(t *testing.T) {
		g := NewGraph()
		var stats Stats
		assert.False(t, g.Tick(&stats))
		assert.Equal(t, Stats{}, stats)

		// repeated empty ticks stay empty
		assert.False(t, g.Tick(&stats))
		assert.Equal(t, Stats{}, stats)
	})
}

// Scenario A: node computes a+b, inputs initialized to 1 and 2, connected
// to a sink cell.
func TestScenarioASum(t *testing.T) {
	g := NewGraph()
	sink := NewCell(0)

	plus := NewNode2(g, func(a, b int) int { return a + b }, nil, nil)
	plus.Connect(sink.AsInput())

	plus.Input0().Append(g, 1)
	plus.Input1().Append(g, 2)

	var stats Stats
	assert.True(t, g.Tick(&stats))
	assert.EqualValues(t, 1, stats.Queued)
	assert.EqualValues(t, 1, stats.Worked)
	assert.Equal(t, 3, sink.Load())

	assert.False(t, g.Tick(&stats))
	assert.EqualValues(t, 0, stats.Queued)
	assert.EqualValues(t, 0, stats.Worked)

	plus.Input0().Append(g, 3)
	assert.True(t, g.Tick(&stats))
	assert.EqualValues(t, 1, stats.Queued)
	assert.EqualValues(t, 1, stats.Worked)
	assert.Equal(t, 5, sink.Load())
}

// Scenario B: two constants wired into plus.
func TestScenarioBConstants(t *testing.T) {
	g := NewGraph()
	sink := NewCell(0)

	one := NewConstant(1)
	two := NewConstant(2)

	plus := NewNode2(g, func(a, b int) int { return a + b }, one, two)
	plus.Connect(sink.AsInput())

	var stats Stats
	assert.True(t, g.Tick(&stats))
	assert.Equal(t, 3, sink.Load())
	assert.EqualValues(t, 1, stats.Queued)
	assert.EqualValues(t, 1, stats.Worked)

	assert.False(t, g.Tick(&stats))
	assert.EqualValues(t, 0, stats.Queued)
}

// Scenario C: plus(seed, self), seed=1. The output is wired back into the
// node's own "self" input as an ordinary strong dependent: each
// propagation reschedules the node itself, and because the self edge's
// id is never greater than the tick's current id, §4.4 defers that
// reschedule to the next tick rather than looping within one — the
// id-based cycle-termination rule is what makes "successive ticks yield
// 1, 2, 3" hold with no further external input.
func TestScenarioCCycle(t *testing.T) {
	g := NewGraph()
	sink := NewCell(0)

	acc := NewNode2(g, func(seed, self int) int { return seed + self }, nil, nil)
	acc.Connect(acc.Input1())
	acc.Connect(sink.AsInput())

	acc.Input0().Append(g, 1)

	var got []int
	for i := 0; i < 3; i++ {
		g.Tick(nil)
		got = append(got, sink.Load())
	}
	assert.Equal(t, []int{1, 2, 3}, got)

	acc.Input0().Append(g, 5)
	g.Tick(nil)
	assert.Equal(t, 8, sink.Load())
	g.Tick(nil)
	assert.Equal(t, 13, sink.Load())
}

// Scenario D: diamond dependency. in1=identity, in2=identity,
// out=less(in1,in2).
func TestScenarioDDiamond(t *testing.T) {
	g := NewGraph()
	sink := NewCell(false)

	identity := func(x int) int { return x }
	in1 := NewNode1(g, identity, nil)
	in2 := NewNode1(g, identity, nil)
	out := NewNode2(g, func(a, b int) bool { return a < b }, in1, in2)
	out.Connect(sink.AsInput())

	in1.Input0().Append(g, 1)
	in2.Input0().Append(g, 2)

	var stats Stats
	assert.True(t, g.Tick(&stats))
	assert.EqualValues(t, 3, stats.Queued)
	assert.EqualValues(t, 3, stats.Worked)
	assert.Equal(t, true, sink.Load())

	in1.Input0().Append(g, 3)
	assert.True(t, g.Tick(&stats))
	assert.EqualValues(t, 1, stats.Queued)
	assert.EqualValues(t, 2, stats.Worked)
	assert.Equal(t, false, sink.Load())

	in1.Input0().Append(g, 5)
	in2.Input0().Append(g, 6)
	assert.True(t, g.Tick(&stats))
	assert.EqualValues(t, 2, stats.Queued)
	assert.EqualValues(t, 3, stats.Worked)
	assert.Equal(t, true, sink.Load())
}

// Scenario E: OnChange vs Always over a five-node topology.
func TestScenarioEOnChangeVsAlways(t *testing.T) {
	g := NewGraph()

	var alwaysRuns, onChangeRuns int32

	source := NewNode1(g, func(x int) int { return x }, nil)

	alwaysMid := NewNode1(g, func(x int) int {
		atomic.AddInt32(&alwaysRuns, 1)
		return x
	}, source, Always[int]())
	alwaysLeaf := NewNode1(g, func(x int) int {
		atomic.AddInt32(&alwaysRuns, 1)
		return x
	}, alwaysMid, Always[int]())

	onChangeMid := NewNode1(g, func(x int) int {
		atomic.AddInt32(&onChangeRuns, 1)
		return x
	}, source, OnChange[int]())
	onChangeLeaf := NewNode1(g, func(x int) int {
		atomic.AddInt32(&onChangeRuns, 1)
		return x
	}, onChangeMid, OnChange[int]())
	_ = onChangeLeaf
	_ = alwaysLeaf

	source.Input0().Append(g, 1)

	var stats Stats
	assert.True(t, g.Tick(&stats))
	assert.EqualValues(t, 5, stats.Worked)

	// re-append the same value: Always path recomputes every downstream
	// node again; OnChange suppresses its downstream from the first
	// suppressed link onward.
	alwaysRuns, onChangeRuns = 0, 0
	source.Input0().Append(g, 1)
	assert.True(t, g.Tick(&stats))
	assert.EqualValues(t, 4, stats.Worked)
	assert.EqualValues(t, 2, alwaysRuns)
	assert.EqualValues(t, 1, onChangeRuns)
}

// Scenario F: a node appends integers to a shared list handle and
// returns it; a downstream node reports its length.
func TestScenarioFSharedHandle(t *testing.T) {
	g := NewGraph()

	var shared []int
	collector := NewNode1(g, func(v int) []int {
		shared = append(shared, v)
		return shared
	}, nil)

	lengthSink := NewCell(-1)
	lenNode := NewNode1(g, func(list []int) int { return len(list) }, collector)
	lenNode.Connect(lengthSink.AsInput())

	collector.Input0().Append(g, 1)
	g.Tick(nil)
	assert.Equal(t, 1, lengthSink.Load())

	var stats Stats
	assert.False(t, g.Tick(&stats)) // no input appended: empty tick

	collector.Input0().Append(g, 5)
	g.Tick(nil)
	assert.Equal(t, 2, lengthSink.Load())
}

// Weak propagation policy variant (§4.6): a node wired to itself via
// ConnectWeak, alongside an ordinary strong downstream dependent.
// Grounded on original_source/example/example.cpp's order_manager, which
// builds with .propagate<calcgraph::Weak>() "so we don't wake ourselves
// up" and then does order_manager->connect(order_manager->input<2>())
// — a self-loop on its own position input that must not cause the node
// to reschedule itself, while its other (strong) dependents still fire
// normally on every externally-driven tick.
func TestWeakPropagationSelfFeedback(t *testing.T) {
	g := NewGraph()

	price := NewNode1(g, func(p int) int { return p }, nil)
	orderMgr := NewNode2(g, func(p, position int) int { return p + position }, price, nil)
	orderMgr.ConnectWeak(orderMgr.Input1())

	sink := NewCell(-1)
	report := NewNode1(g, func(v int) int { return v }, orderMgr)
	report.Connect(sink.AsInput())

	price.Input0().Append(g, 1)
	g.Tick(nil)
	assert.Equal(t, 1, sink.Load()) // position starts at zero: 1+0

	// the weak self-edge updated orderMgr's own position cell to 1, but
	// must not have scheduled orderMgr again: with no new external
	// input, the next tick is empty, unlike scenario C's strong self-loop
	// which reschedules on every propagation.
	var stats Stats
	assert.False(t, g.Tick(&stats))
	assert.EqualValues(t, 0, stats.Queued)

	// the weak edge's cell write did take effect, and the strong
	// downstream report still runs on the next externally-driven tick.
	price.Input0().Append(g, 5)
	g.Tick(nil)
	assert.Equal(t, 6, sink.Load()) // 5 + position(1)
}

func TestAtMostOncePerTickOnFanIn(t *testing.T) {
	g := NewGraph()

	var invocations int32
	in1 := NewNode1(g, func(x int) int { return x }, nil)
	in2 := NewNode1(g, func(x int) int { return x }, nil)
	in3 := NewNode1(g, func(x int) int { return x }, nil)

	sink := NewNode2(g, func(a, b int) int {
		atomic.AddInt32(&invocations, 1)
		return a + b
	}, in1, in2)
	_ = in3

	in1.Input0().Append(g, 1)
	in2.Input0().Append(g, 2)

	g.Tick(nil)
	assert.EqualValues(t, 1, invocations)
	_ = sink
}

func TestCycleSafetyBoundedWork(t *testing.T) {
	g := NewGraph()

	node := NewNode1(g, func(x int) int { return x + 1 }, nil)
	node.Connect(node.Input0())

	var stats Stats
	for i := 0; i < 5; i++ {
		assert.True(t, g.Tick(&stats))
		assert.EqualValues(t, 1, stats.Worked)
	}
}

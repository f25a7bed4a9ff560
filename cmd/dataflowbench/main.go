// Command dataflowbench drives a dataflow.Graph under concurrent writers
// and a ticking evaluator goroutine, reporting queue/heap/latency
// statistics. Grounded on delaneyj-signalparty/cmd/benchmark/main.go's
// flag+tachymeter+table shape.
package main

import (
	"context"
	"log"
	"os"
	"sync/atomic"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"

	"github.com/wkern/dataflow"
)

const (
	topologyKey = "topology"
	widthKey    = "width"
	heightKey   = "height"
	writersKey  = "writers"
	ticksKey    = "ticks"
)

func main() {
	cmd := &cli.Command{
		Name:  "dataflowbench",
		Usage: "drive a dataflow graph under concurrent writers and report per-tick stats",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  topologyKey,
				Usage: "topology shape: chain, diamond, or fanout",
				Value: "chain",
			},
			&cli.UintFlag{
				Name:  widthKey,
				Usage: "number of parallel chains (chain), diamonds (diamond), or consumer nodes (fanout)",
				Value: 4,
			},
			&cli.UintFlag{
				Name:  heightKey,
				Usage: "chain depth (chain topology only)",
				Value: 8,
			},
			&cli.UintFlag{
				Name:  writersKey,
				Usage: "number of concurrent goroutines appending to sources",
				Value: 4,
			},
			&cli.UintFlag{
				Name:  ticksKey,
				Usage: "number of evaluator ticks to drive before reporting",
				Value: 200,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// topology is built by each benchmarkable shape. sources are the append
// functions that writer goroutines call; nodeIDs collects the index of
// every built node whose function has run, and the report prints its size.
type topology struct {
	sources []func(*dataflow.Graph, int)
	nodeIDs mapset.Set[int]
}

func run(ctx context.Context, cmd *cli.Command) error {
	shape := cmd.String(topologyKey)
	width := int(cmd.Uint(widthKey))
	height := int(cmd.Uint(heightKey))
	writers := int(cmd.Uint(writersKey))
	ticks := int(cmd.Uint(ticksKey))

	log.Printf("dataflowbench starting: topology=%s width=%s height=%s writers=%s ticks=%s",
		shape, humanize.Comma(int64(width)), humanize.Comma(int64(height)),
		humanize.Comma(int64(writers)), humanize.Comma(int64(ticks)))

	g := dataflow.NewGraph()

	var topo topology
	switch shape {
	case "diamond":
		topo = buildDiamond(g, width)
	case "fanout":
		topo = buildFanout(g, width)
	default:
		topo = buildChain(g, width, height)
	}

	var stop atomic.Bool
	tach := tachymeter.New(&tachymeter.Config{Size: ticks})

	tickDone := make(chan dataflow.Stats, ticks)
	go func() {
		defer close(tickDone)
		for i := 0; i < ticks && !stop.Load(); i++ {
			start := time.Now()
			var stats dataflow.Stats
			g.Tick(&stats)
			tach.AddTime(time.Since(start))
			tickDone <- stats
		}
		stop.Store(true)
	}()

	writerDone := make(chan struct{})
	for w := 0; w < writers; w++ {
		w := w
		go func() {
			v := 0
			for !stop.Load() {
				src := topo.sources[v%len(topo.sources)]
				src(g, w*1_000_000+v)
				v++
			}
			writerDone <- struct{}{}
		}()
	}

	var totals dataflow.Stats
	for s := range tickDone {
		totals.Queued += s.Queued
		totals.Worked += s.Worked
		totals.Duplicates += s.Duplicates
		totals.PushedGraph += s.PushedGraph
		totals.PushedHeap += s.PushedHeap
	}
	for w := 0; w < writers; w++ {
		<-writerDone
	}

	report(shape, totals, tach.Calc(), topo.nodeIDs)
	return nil
}

func report(shape string, totals dataflow.Stats, calc *tachymeter.Metrics, seen mapset.Set[int]) {
	tbl := table.NewWriter()
	tbl.SetTitle("dataflow bench: " + shape)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"metric", "value"})
	tbl.AppendRows([]table.Row{
		{"queued", humanize.Comma(int64(totals.Queued))},
		{"worked", humanize.Comma(int64(totals.Worked))},
		{"duplicates", humanize.Comma(int64(totals.Duplicates))},
		{"pushed_graph", humanize.Comma(int64(totals.PushedGraph))},
		{"pushed_heap", humanize.Comma(int64(totals.PushedHeap))},
		{"distinct nodes exercised", humanize.Comma(int64(seen.Cardinality()))},
		{"tick avg", calc.Time.Avg},
		{"tick p99", calc.Time.P99},
		{"tick max", calc.Time.Max},
	})
	tbl.Render()
}

// buildChain wires width independent chains: a source node that passes
// on the value appended by a writer, followed by height nodes that each
// add one to their upstream's value. Every node's index is recorded into
// nodeIDs as soon as its function runs, so the final report can show how
// many distinct nodes ran.
func buildChain(g *dataflow.Graph, width, height int) topology {
	seen := mapset.NewSet[int]()
	sources := make([]func(*dataflow.Graph, int), 0, width)

	for c := 0; c < width; c++ {
		idx := c * (height + 1)
		source := dataflow.NewNode1(g, func(v int) int {
			seen.Add(idx)
			return v
		}, nil)

		var last dataflow.Connectable[int] = source
		for h := 0; h < height; h++ {
			nodeIdx := idx + h + 1
			prev := last
			last = dataflow.NewNode1(g, func(v int) int {
				seen.Add(nodeIdx)
				return v + 1
			}, prev)
		}

		in0 := source.Input0()
		sources = append(sources, func(g *dataflow.Graph, v int) { in0.Append(g, v) })
	}

	return topology{sources: sources, nodeIDs: seen}
}

// buildDiamond wires width independent diamonds: one source feeds two
// parallel identity nodes, which fan back into a single comparison sink.
func buildDiamond(g *dataflow.Graph, width int) topology {
	seen := mapset.NewSet[int]()
	sources := make([]func(*dataflow.Graph, int), 0, width)

	for c := 0; c < width; c++ {
		base := c * 4
		source := dataflow.NewNode1(g, func(v int) int {
			seen.Add(base)
			return v
		}, nil)
		left := dataflow.NewNode1(g, func(v int) int {
			seen.Add(base + 1)
			return v
		}, source)
		right := dataflow.NewNode1(g, func(v int) int {
			seen.Add(base + 2)
			return v
		}, source)
		dataflow.NewNode2(g, func(a, b int) bool {
			seen.Add(base + 3)
			return a < b
		}, left, right)

		in0 := source.Input0()
		sources = append(sources, func(g *dataflow.Graph, v int) { in0.Append(g, v) })
	}

	return topology{sources: sources, nodeIDs: seen}
}

// buildFanout wires one source feeding width independent consumer
// nodes, exercising the at-most-once-per-tick coalescing path on a wide
// fan-out rather than a fan-in.
func buildFanout(g *dataflow.Graph, width int) topology {
	seen := mapset.NewSet[int]()
	source := dataflow.NewNode1(g, func(v int) int {
		seen.Add(0)
		return v
	}, nil)

	for c := 0; c < width; c++ {
		idx := c + 1
		dataflow.NewNode1(g, func(v int) int {
			seen.Add(idx)
			return v
		}, source)
	}

	in0 := source.Input0()
	return topology{
		sources: []func(*dataflow.Graph, int){func(g *dataflow.Graph, v int) { in0.Append(g, v) }},
		nodeIDs: seen,
	}
}

// Command segheap-bench drives a randomized allocate/resize/free/write
// workload against the alloc package and reports whether it replayed
// without a detected correctness or invariant violation.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/heapkit/segheap/alloc"
	"github.com/heapkit/segheap/trace"
)

func main() {
	seed := flag.Int64("seed", 1, "random seed for the generated trace")
	ops := flag.Int("ops", 50000, "number of operations in the trace")
	maxLive := flag.Int("max-live", 256, "maximum simultaneously live allocations")
	maxSize := flag.Int("max-size", 1<<16, "maximum payload size per allocation")
	capacity := flag.Int("capacity", 64<<20, "backing region capacity in bytes")
	debugCheck := flag.Bool("debug-check", false, "call (*Heap).Check after every step; a real walk under -tags debug, a no-op otherwise")
	flag.Parse()

	stats, err := runOne(*seed, *ops, *maxLive, *maxSize, *capacity, *debugCheck)
	if err != nil {
		fmt.Fprintf(os.Stderr, "segheap-bench: %v\n", err)
		os.Exit(1)
	}
	printStats(stats)
}

func runOne(seed int64, ops, maxLive, maxSize, capacity int, debugCheck bool) (trace.Stats, error) {
	rng := rand.New(rand.NewSource(seed))
	tr := trace.Generate(rng, ops, maxLive, maxSize)

	h, err := alloc.NewHeap(capacity)
	if err != nil {
		return trace.Stats{}, err
	}
	rp := trace.NewReplayer()
	rp.CheckEachStep = debugCheck
	return rp.Run(h, tr)
}

func printStats(stats trace.Stats) {
	fmt.Printf("allocs=%d resizes=%d frees=%d writes=%d max_live=%d heap=[%d,%d)\n",
		stats.Allocs, stats.Resizes, stats.Frees, stats.Writes, stats.MaxLive,
		stats.FinalLow, stats.FinalHi)
}

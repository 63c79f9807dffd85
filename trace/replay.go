package trace

import (
	"fmt"

	"github.com/bytedance/gopkg/lang/mcache"

	"github.com/heapkit/segheap/alloc"
)

// Stats summarizes a completed replay.
type Stats struct {
	Allocs   int
	Resizes  int
	Frees    int
	Writes   int
	MaxLive  int
	FinalLow int
	FinalHi  int
}

type liveBlock struct {
	payload []byte
	fill    []byte // scratch copy of the bytes Run last wrote, for verification
}

// Replayer drives a Trace against a Heap, verifying after every step that
// live payloads neither overlap each other nor drift from the bytes they
// were last filled with.
type Replayer struct {
	blocks map[int]*liveBlock

	// CheckEachStep additionally calls (*alloc.Heap).Check after every
	// step when set. Check is always safe to call — it is a real
	// structural walk only in -tags debug builds and a constant-time
	// no-op otherwise — but walking the heap on every step has a cost,
	// so Run only pays it when this is enabled.
	CheckEachStep bool
}

// NewReplayer returns a Replayer ready to run a Trace.
func NewReplayer() *Replayer {
	return &Replayer{blocks: make(map[int]*liveBlock)}
}

// Run replays t against h, returning summary Stats or the first detected
// correctness violation.
func (rp *Replayer) Run(h *alloc.Heap, t *Trace) (Stats, error) {
	var stats Stats

	for opnum, step := range t.Steps {
		switch step.Kind {
		case OpAlloc:
			p := h.Alloc(step.Size)
			if p == nil {
				return stats, fmt.Errorf("step %d: alloc(%d) failed", opnum, step.Size)
			}
			if err := rp.checkNoOverlap(p, step.Index); err != nil {
				return stats, fmt.Errorf("step %d: %w", opnum, err)
			}
			fill := mcache.Malloc(len(p))
			fillPattern(fill, opnum)
			copy(p, fill)
			rp.blocks[step.Index] = &liveBlock{payload: p, fill: fill}
			stats.Allocs++

		case OpWrite:
			b, ok := rp.blocks[step.Index]
			if !ok {
				return stats, fmt.Errorf("step %d: write to unknown index %d", opnum, step.Index)
			}
			if err := verifyFill(b.payload, b.fill); err != nil {
				return stats, fmt.Errorf("step %d: %w", opnum, err)
			}
			fillPattern(b.fill, opnum)
			copy(b.payload, b.fill)
			stats.Writes++

		case OpResize:
			b, ok := rp.blocks[step.Index]
			if !ok {
				return stats, fmt.Errorf("step %d: resize of unknown index %d", opnum, step.Index)
			}
			if err := verifyFill(b.payload, b.fill); err != nil {
				return stats, fmt.Errorf("step %d: %w", opnum, err)
			}
			grown := h.Resize(b.payload, step.Size)
			if grown == nil {
				return stats, fmt.Errorf("step %d: resize(%d) failed", opnum, step.Size)
			}
			newFill := mcache.Malloc(len(grown))
			copyLen := len(b.fill)
			if len(newFill) < copyLen {
				copyLen = len(newFill)
			}
			copy(newFill, b.fill[:copyLen])
			if len(newFill) > copyLen {
				fillPattern(newFill[copyLen:], opnum)
			}
			mcache.Free(b.fill)
			if err := rp.checkNoOverlap(grown, step.Index); err != nil {
				return stats, fmt.Errorf("step %d: %w", opnum, err)
			}
			if err := verifyFill(grown[:copyLen], newFill[:copyLen]); err != nil {
				return stats, fmt.Errorf("step %d: resize did not preserve contents: %w", opnum, err)
			}
			copy(grown[copyLen:], newFill[copyLen:])
			rp.blocks[step.Index] = &liveBlock{payload: grown, fill: newFill}
			stats.Resizes++

		case OpFree:
			b, ok := rp.blocks[step.Index]
			if !ok {
				return stats, fmt.Errorf("step %d: free of unknown index %d", opnum, step.Index)
			}
			if err := verifyFill(b.payload, b.fill); err != nil {
				return stats, fmt.Errorf("step %d: %w", opnum, err)
			}
			h.Free(b.payload)
			mcache.Free(b.fill)
			delete(rp.blocks, step.Index)
			stats.Frees++
		}

		if len(rp.blocks) > stats.MaxLive {
			stats.MaxLive = len(rp.blocks)
		}
		if rp.CheckEachStep {
			if err := h.Check(); err != nil {
				return stats, fmt.Errorf("step %d: %w", opnum, err)
			}
		}
	}

	for _, b := range rp.blocks {
		mcache.Free(b.fill)
	}
	stats.FinalLow = h.Low()
	stats.FinalHi = h.High()
	return stats, nil
}

func fillPattern(b []byte, seed int) {
	for i := range b {
		b[i] = byte(seed + i)
	}
}

func verifyFill(payload, want []byte) error {
	if len(payload) != len(want) {
		return fmt.Errorf("payload length %d does not match tracked length %d", len(payload), len(want))
	}
	for i := range payload {
		if payload[i] != want[i] {
			return fmt.Errorf("payload byte %d corrupted: got %d, want %d", i, payload[i], want[i])
		}
	}
	return nil
}

// checkNoOverlap reports whether p overlaps any other currently live
// block's payload.
func (rp *Replayer) checkNoOverlap(p []byte, ownIndex int) error {
	if len(p) == 0 {
		return nil
	}
	lo := addrOf(p)
	hi := lo + uintptr(len(p))
	for idx, b := range rp.blocks {
		if idx == ownIndex || len(b.payload) == 0 {
			continue
		}
		blo := addrOf(b.payload)
		bhi := blo + uintptr(len(b.payload))
		if lo < bhi && blo < hi {
			return fmt.Errorf("block %d overlaps live block %d", ownIndex, idx)
		}
	}
	return nil
}

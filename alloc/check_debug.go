//go:build debug

package alloc

import "fmt"

// debugCheck walks every block from low to high, verifying that the
// blocks tile the heap exactly, that each header agrees with its
// footer, that no two free blocks are ever adjacent, and that the bin
// index is consistent with what the walk found. Only compiled into
// -tags debug builds; the full walk is too expensive to carry in
// release builds.
func debugCheck(h *Heap) error {
	seen := make(map[Addr]bool)
	binOfBlock := make(map[Addr]int)

	a := h.low
	high := h.region.High()
	var prevFree bool
	var havePrev bool

	for a < high {
		size := h.sizeOf(a)
		if size <= 0 {
			return fmt.Errorf("alloc: block at %d has non-positive size %d", a, size)
		}
		end := a + Addr(size)
		if end > high {
			return fmt.Errorf("alloc: block at %d (size %d) overruns heap high %d", a, size, high)
		}
		if footSize := int64(*h.footerPtr(a, size)); footSize != size {
			return fmt.Errorf("alloc: block at %d header/footer size mismatch (%d vs %d)", a, size, footSize)
		}

		free := h.isFree(a)
		if free && havePrev && prevFree {
			return fmt.Errorf("alloc: adjacent free blocks at and before %d were not coalesced", a)
		}
		if free {
			bin := binOf(size, h.minBlockPow, len(h.bins))
			binOfBlock[a] = bin
		}

		seen[a] = true
		prevFree = free
		havePrev = true
		a = end
	}
	if a != high {
		return fmt.Errorf("alloc: block walk ended at %d, expected heap high %d", a, high)
	}

	listed := make(map[Addr]bool)
	for bin, head := range h.bins {
		curr := head
		var prev Addr = NullAddr
		visited := make(map[Addr]bool)
		for curr != NullAddr {
			if visited[curr] {
				return fmt.Errorf("alloc: cycle detected in bin %d at block %d", bin, curr)
			}
			visited[curr] = true
			listed[curr] = true
			if !seen[curr] {
				return fmt.Errorf("alloc: bin %d references block %d not found in heap walk", bin, curr)
			}
			if !h.isFree(curr) {
				return fmt.Errorf("alloc: bin %d references block %d that is not marked free", bin, curr)
			}
			if want := binOfBlock[curr]; want != bin {
				return fmt.Errorf("alloc: block %d listed in bin %d but belongs in bin %d", curr, bin, want)
			}
			if h.prev(curr) != prev {
				return fmt.Errorf("alloc: block %d has inconsistent prev link in bin %d", curr, bin)
			}
			prev = curr
			curr = h.next(curr)
		}
	}
	for a := range binOfBlock {
		if !listed[a] {
			return fmt.Errorf("alloc: free block %d is not listed in any bin", a)
		}
	}

	return nil
}

// debugValidateFree panics if a does not look like a block this heap
// could have handed out: its footer must agree with its header, and it
// must not already be marked free (catches double frees).
func debugValidateFree(h *Heap, a Addr) {
	size := h.sizeOf(a)
	if size <= 0 || a+Addr(size) > h.region.High() || a < h.low {
		panic(fmt.Sprintf("alloc: free of block %d with implausible size %d", a, size))
	}
	if footSize := int64(*h.footerPtr(a, size)); footSize != size {
		panic(fmt.Sprintf("alloc: free of block %d with header/footer mismatch (%d vs %d)", a, size, footSize))
	}
	if h.isFree(a) {
		panic(fmt.Sprintf("alloc: double free of block %d", a))
	}
}

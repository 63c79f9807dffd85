package alloc

import (
	"fmt"

	"github.com/heapkit/segheap/region"
)

// Heap is an explicit allocator handle: a region plus its bin index. All
// operations take *Heap as the receiver rather than relying on process-wide
// state, so a program can run more than one independently.
type Heap struct {
	region *region.Region
	bins   []Addr

	low Addr

	minBlockPow  int
	maxBlockPow  int
	minBlockSize int64
	shrinkMin    int
}

// NewHeap creates a Heap backed by a region of the given capacity, using
// the default bin range and shrink threshold.
func NewHeap(capacity int) (*Heap, error) {
	return NewHeapWithBlockSize(capacity, DefaultMinBlockPow, DefaultMaxBlockPow, DefaultShrinkMin)
}

// NewHeapWithBlockSize creates a Heap with a custom bin range
// [1<<minBlockPow, 1<<maxBlockPow) and shrink threshold.
func NewHeapWithBlockSize(capacity, minBlockPow, maxBlockPow, shrinkMin int) (*Heap, error) {
	if minBlockPow <= 0 || maxBlockPow <= minBlockPow {
		return nil, fmt.Errorf("alloc: invalid block pow range [%d, %d)", minBlockPow, maxBlockPow)
	}
	minBlockSize := int64(1) << uint(minBlockPow)
	if minBlockSize < int64(headerSize+MinPayloadSize+footerSize) {
		return nil, fmt.Errorf("alloc: minBlockPow %d too small to hold header, links, and footer", minBlockPow)
	}
	shrinkMin = alignUp(shrinkMin)
	if shrinkMin < alignUp(headerSize+MinPayloadSize+footerSize) {
		return nil, fmt.Errorf("alloc: shrinkMin %d too small to form a standalone block with free-list links", shrinkMin)
	}

	r, err := region.New(capacity)
	if err != nil {
		return nil, err
	}

	h := &Heap{
		region:       r,
		bins:         make([]Addr, numBinsFor(minBlockPow, maxBlockPow)),
		minBlockPow:  minBlockPow,
		maxBlockPow:  maxBlockPow,
		minBlockSize: minBlockSize,
		shrinkMin:    shrinkMin,
	}
	h.resetBins()
	if err := h.padToCacheLine(); err != nil {
		return nil, err
	}
	h.low = h.region.High()
	return h, nil
}

func (h *Heap) resetBins() {
	for i := range h.bins {
		h.bins[i] = NullAddr
	}
}

// padToCacheLine extends the region so its high-water mark sits on a
// cache-line boundary, matching the reference allocator's init().
func (h *Heap) padToCacheLine() error {
	high := int64(h.region.High())
	pad := (cacheLineSize - (high % cacheLineSize)) % cacheLineSize
	if pad == 0 {
		return nil
	}
	_, err := h.region.Grow(int(pad))
	return err
}

// blockSizeFor computes the total block span (header+payload+footer,
// alignment-rounded, clamped to minBlockSize) needed to hold n payload
// bytes, rounding n up to MinPayloadSize first so a later free can store
// free-list links.
func (h *Heap) blockSizeFor(n int) int64 {
	if n < MinPayloadSize {
		n = MinPayloadSize
	}
	size := int64(alignUp(headerSize + n + footerSize))
	if size < h.minBlockSize {
		size = h.minBlockSize
	}
	return size
}

// Alloc returns a payload slice of at least n bytes, or nil if the
// request cannot be satisfied (heap state is left unchanged on failure).
func (h *Heap) Alloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	blockSize := h.blockSizeFor(n)
	numBins := len(h.bins)
	startBin := binOf(blockSize, h.minBlockPow, numBins)
	for bin := startBin; bin < numBins; bin++ {
		if a := h.pull(blockSize, bin); a != NullAddr {
			h.shrinkBlock(a, blockSize)
			return h.payloadOf(a, n)
		}
	}
	if a, ok := h.extendFrontier(blockSize); ok {
		return h.payloadOf(a, n)
	}
	if a, ok := h.appendNew(blockSize); ok {
		return h.payloadOf(a, n)
	}
	return nil
}

// Free returns block, previously returned by Alloc or Resize, to the
// allocator. Freeing a nil or already-empty slice is a no-op. Freeing a
// pointer not produced by this Heap, or double-freeing, is undefined in
// release builds and panics in debug builds (-tags debug).
func (h *Heap) Free(block []byte) {
	if cap(block) == 0 {
		return
	}
	a := h.blockOf(block)
	debugValidateFree(h, a)
	h.coalesce(a)
}

// Resize changes the size of block's allocation to n bytes, returning the
// (possibly new) payload slice. Resize(nil, n) behaves like Alloc(n);
// Resize(block, 0) behaves like Free(block) and returns nil.
func (h *Heap) Resize(block []byte, n int) []byte {
	if cap(block) == 0 {
		return h.Alloc(n)
	}
	if n == 0 {
		h.Free(block)
		return nil
	}
	if n == len(block) {
		return block
	}

	a := h.blockOf(block)
	size := h.sizeOf(a)
	newSize := h.blockSizeFor(n)

	if newSize == size {
		return h.payloadOf(a, n)
	}
	if newSize < size {
		h.shrinkBlock(a, newSize)
		return h.payloadOf(a, n)
	}

	right := h.rightOf(a)
	if int64(right) == int64(h.region.High()) {
		delta := newSize - size
		if _, err := h.region.Grow(int(delta)); err == nil {
			h.setSize(a, newSize)
			return h.payloadOf(a, n)
		}
	} else if h.isFree(right) && size+h.sizeOf(right) >= newSize {
		h.extract(right)
		h.setSize(a, size+h.sizeOf(right))
		h.shrinkBlock(a, newSize)
		return h.payloadOf(a, n)
	}

	newBlock := h.Alloc(n)
	if newBlock == nil {
		return nil
	}
	copyLen := len(block)
	if n < copyLen {
		copyLen = n
	}
	copy(newBlock, block[:copyLen])
	h.Free(block)
	return newBlock
}

// Low returns the lowest address managed by the heap.
func (h *Heap) Low() int { return int(h.low) }

// High returns the heap's current high-water mark; it only ever grows
// within a session.
func (h *Heap) High() int { return int(h.region.High()) }

// Reset returns the heap to its freshly initialized state, for test
// isolation between runs.
func (h *Heap) Reset() {
	h.region.Reset()
	h.resetBins()
	h.low = 0
	_ = h.padToCacheLine()
	h.low = h.region.High()
}

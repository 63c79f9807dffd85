package alloc

import "unsafe"

// headerPtr returns a pointer to the size|free word at the start of the
// block at a.
func (h *Heap) headerPtr(a Addr) *uint64 {
	return (*uint64)(h.region.Pointer(a))
}

// footerPtr returns a pointer to the size word at the end of a size-byte
// block starting at a.
func (h *Heap) footerPtr(a Addr, size int64) *uint64 {
	return (*uint64)(h.region.Pointer(a + Addr(size) - footerSize))
}

// sizeOf returns a block's total span in bytes, including header and
// footer.
func (h *Heap) sizeOf(a Addr) int64 {
	return int64(*h.headerPtr(a) &^ 1)
}

// isFree reports whether the block at a is currently free.
func (h *Heap) isFree(a Addr) bool {
	return *h.headerPtr(a)&1 != 0
}

// setFree updates the block's free flag without touching its size.
func (h *Heap) setFree(a Addr, free bool) {
	size := *h.headerPtr(a) &^ 1
	if free {
		*h.headerPtr(a) = size | 1
	} else {
		*h.headerPtr(a) = size
	}
}

// initBlock writes a fresh header and footer for a block occupying
// [a, a+size), with the given free state.
func (h *Heap) initBlock(a Addr, size int64, free bool) {
	v := uint64(size)
	if free {
		v |= 1
	}
	*h.headerPtr(a) = v
	*h.footerPtr(a, size) = uint64(size)
}

// setSize resizes the block at a, preserving its free flag, and rewrites
// its footer to match. Every caller is responsible for ensuring the new
// span still tiles correctly with whatever now sits to the block's right.
func (h *Heap) setSize(a Addr, size int64) {
	free := h.isFree(a)
	v := uint64(size)
	if free {
		v |= 1
	}
	*h.headerPtr(a) = v
	*h.footerPtr(a, size) = uint64(size)
}

// rightOf returns the address immediately following the block at a. The
// caller must check hasRight before dereferencing it as a block.
func (h *Heap) rightOf(a Addr) Addr {
	return a + Addr(h.sizeOf(a))
}

// hasRight reports whether a block exists to the right of a within the
// heap.
func (h *Heap) hasRight(a Addr) bool {
	return int64(h.rightOf(a)) < int64(h.region.High())
}

// hasLeft reports whether a block exists to the left of a within the
// heap.
func (h *Heap) hasLeft(a Addr) bool {
	return int64(a) > int64(h.low)
}

// leftOf returns the address of the block immediately preceding a, read
// via that neighbor's footer. The caller must check hasLeft first.
func (h *Heap) leftOf(a Addr) Addr {
	leftSize := int64(*(*uint64)(h.region.Pointer(a - footerSize)))
	return a - Addr(leftSize)
}

// lastBlock returns the address of the rightmost block in the heap (the
// frontier), found via the heap's own high-water mark and that block's
// footer, with no cached pointer to keep in sync.
func (h *Heap) lastBlock() (Addr, bool) {
	high := h.region.High()
	if int64(high) <= int64(h.low) {
		return NullAddr, false
	}
	size := int64(*(*uint64)(h.region.Pointer(high - footerSize)))
	return high - Addr(size), true
}

// payloadOf returns the n-byte payload slice of the block at a. cap of the
// result reflects the block's full usable payload capacity, which may
// exceed n.
func (h *Heap) payloadOf(a Addr, n int) []byte {
	ptr := h.region.Pointer(a + headerSize)
	usable := int(h.sizeOf(a)) - headerSize - footerSize
	return unsafe.Slice((*byte)(ptr), usable)[:n]
}

// blockOf recovers the block address owning a payload slice previously
// returned by payloadOf.
func (h *Heap) blockOf(payload []byte) Addr {
	dataPtr := *(*uintptr)(unsafe.Pointer(&payload))
	off := int64(dataPtr-uintptr(h.region.Base())) - headerSize
	return Addr(off)
}

// nextPtr and prevPtr address the free-list links stored at the start of
// a free block's payload.
func (h *Heap) nextPtr(a Addr) *Addr {
	return (*Addr)(h.region.Pointer(a + headerSize))
}

func (h *Heap) prevPtr(a Addr) *Addr {
	return (*Addr)(h.region.Pointer(a + headerSize + addrSize))
}

func (h *Heap) next(a Addr) Addr  { return *h.nextPtr(a) }
func (h *Heap) setNext(a, v Addr) { *h.nextPtr(a) = v }
func (h *Heap) prev(a Addr) Addr  { return *h.prevPtr(a) }
func (h *Heap) setPrev(a, v Addr) { *h.prevPtr(a) = v }

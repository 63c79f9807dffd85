package alloc

// push marks the block at a free and inserts it at the head of its size
// class's bin.
func (h *Heap) push(a Addr) {
	bin := binOf(h.sizeOf(a), h.minBlockPow, len(h.bins))
	h.setFree(a, true)
	h.setPrev(a, NullAddr)
	head := h.bins[bin]
	h.setNext(a, head)
	if head != NullAddr {
		h.setPrev(head, a)
	}
	h.bins[bin] = a
}

// pull scans bin for the first free block of at least minSize, unlinks it,
// clears its free flag, and returns it. Returns NullAddr if none fits.
func (h *Heap) pull(minSize int64, bin int) Addr {
	curr := h.bins[bin]
	for curr != NullAddr {
		if h.sizeOf(curr) >= minSize {
			h.extract(curr)
			h.setFree(curr, false)
			return curr
		}
		curr = h.next(curr)
	}
	return NullAddr
}

// extract removes the free block at a from its bin in O(1), using its own
// prev/next links.
func (h *Heap) extract(a Addr) {
	bin := binOf(h.sizeOf(a), h.minBlockPow, len(h.bins))
	p := h.prev(a)
	n := h.next(a)
	if p != NullAddr {
		h.setNext(p, n)
	} else {
		h.bins[bin] = n
	}
	if n != NullAddr {
		h.setPrev(n, p)
	}
}

package alloc

// coalesce merges the block at a with a free right neighbor and/or a free
// left neighbor, pushes the resulting block into the bin index, and
// returns its final address. No two free blocks are ever left adjacent.
func (h *Heap) coalesce(a Addr) Addr {
	if h.hasRight(a) {
		right := h.rightOf(a)
		if h.isFree(right) {
			h.extract(right)
			h.setSize(a, h.sizeOf(a)+h.sizeOf(right))
		}
	}

	if h.hasLeft(a) {
		left := h.leftOf(a)
		if h.isFree(left) {
			h.extract(left)
			h.setSize(left, h.sizeOf(left)+h.sizeOf(a))
			h.push(left)
			return left
		}
	}

	h.push(a)
	return a
}

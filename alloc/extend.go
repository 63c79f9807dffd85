package alloc

// appendNew grows the region by size bytes and forms a fresh used block at
// the old frontier.
func (h *Heap) appendNew(size int64) (Addr, bool) {
	old, err := h.region.Grow(int(size))
	if err != nil {
		return NullAddr, false
	}
	h.initBlock(old, size, false)
	return old, true
}

// extendFrontier lengthens the heap's current frontier block in place when
// it is free but undersized for needed, avoiding a fragmenting gap at the
// high edge. Returns false if the frontier isn't free, is already large
// enough (the normal bin search would have found it), or the region
// cannot grow.
func (h *Heap) extendFrontier(needed int64) (Addr, bool) {
	last, ok := h.lastBlock()
	if !ok || !h.isFree(last) {
		return NullAddr, false
	}
	size := h.sizeOf(last)
	if size >= needed {
		return NullAddr, false
	}
	delta := needed - size

	h.extract(last)
	if _, err := h.region.Grow(int(delta)); err != nil {
		h.push(last)
		return NullAddr, false
	}
	h.setSize(last, needed)
	h.setFree(last, false)
	return last, true
}

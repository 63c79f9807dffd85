package alloc

// shrinkBlock trims the block at a to target bytes, provided the leftover
// meets shrinkMin; otherwise the whole block is kept, accepting internal
// fragmentation rather than producing a useless sliver. Any leftover tail
// is coalesced with its own right neighbor before being returned to the
// bin index.
func (h *Heap) shrinkBlock(a Addr, target int64) {
	size := h.sizeOf(a)
	remainder := size - target
	if remainder < int64(h.shrinkMin) {
		return
	}
	h.setSize(a, target)
	tail := a + Addr(target)
	h.initBlock(tail, remainder, false)
	h.coalesce(tail)
}

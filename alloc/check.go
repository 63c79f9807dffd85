package alloc

// Check walks the heap and returns an error describing the first
// structural invariant it finds violated. In non-debug builds this is a
// constant-time no-op; build with -tags debug to get the real walker.
func (h *Heap) Check() error {
	return debugCheck(h)
}

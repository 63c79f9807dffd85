//go:build !debug

package alloc

// This file provides no-op debug hooks for non-debug builds.

// debugCheck is a constant-time stub outside -tags debug builds.
func debugCheck(h *Heap) error { return nil }

// debugValidateFree is a no-op outside -tags debug builds.
func debugValidateFree(h *Heap, a Addr) {}

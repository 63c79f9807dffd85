// Package region stands in for the page-oriented region provider a real
// allocator would sit on top of (the "program break" abstraction): a single,
// pre-reserved, fixed-capacity byte arena whose high end can only move
// forward. It is the narrow, out-of-core-design contract consumed by
// package alloc: Grow, Low, High, Reset.
package region

import (
	"fmt"
	"unsafe"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// DefaultCapacity is the default size of the pre-reserved arena (64MB).
const DefaultCapacity = 64 << 20

// Addr is a byte offset from a Region's base. It is the address type
// exchanged across the region_grow/region_low/region_high contract.
type Addr int64

// NullAddr is never a valid offset into a Region; it is used as the "no
// link" sentinel in intrusive free-list bookkeeping.
const NullAddr Addr = -1

// Region is a fixed-capacity, pre-reserved arena with a monotonically
// non-decreasing high-water mark. Because the backing array is allocated
// once and never reallocated, an unsafe.Pointer derived from Pointer
// remains valid for the Region's entire lifetime, even as High advances.
type Region struct {
	mem  []byte
	base unsafe.Pointer
	high int
}

// New reserves a Region with the given capacity in bytes.
func New(capacity int) (*Region, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("region: capacity must be positive, got %d", capacity)
	}
	mem := dirtmake.Bytes(capacity, capacity)
	return &Region{mem: mem, base: unsafe.Pointer(&mem[0])}, nil
}

// Grow extends the region by delta bytes and returns the offset at the old
// high-water mark (region_grow's old_high). delta must be >= 0. Returns an
// error, leaving the region unchanged, if delta would push High() past the
// reserved capacity.
func (r *Region) Grow(delta int) (Addr, error) {
	if delta < 0 {
		return 0, fmt.Errorf("region: grow delta must be non-negative, got %d", delta)
	}
	newHigh := r.high + delta
	if newHigh > len(r.mem) {
		return 0, fmt.Errorf("region: out of memory: want %d bytes, %d remaining", delta, len(r.mem)-r.high)
	}
	old := r.high
	r.high = newHigh
	return Addr(old), nil
}

// Low returns the region's low address. It is always 0: a Region never
// shrinks from the front.
func (r *Region) Low() Addr { return 0 }

// High returns the region's current high-water mark.
func (r *Region) High() Addr { return Addr(r.high) }

// Capacity returns the total reserved size of the region.
func (r *Region) Capacity() int { return len(r.mem) }

// Reset returns the region to a zero-size state. Previously returned
// pointers become invalid for reuse but the backing arena is retained, so
// Reset is cheap and repeatable (used between trace-replayer runs).
func (r *Region) Reset() {
	r.high = 0
}

// Pointer resolves an Addr to a real pointer into the backing arena. It is
// the sole place package alloc crosses from the address abstraction to raw
// memory.
func (r *Region) Pointer(a Addr) unsafe.Pointer {
	return unsafe.Add(r.base, uintptr(a))
}

// Base returns the arena's base pointer, for callers (package alloc) that
// need to recover an Addr from a raw pointer via pointer subtraction.
func (r *Region) Base() unsafe.Pointer { return r.base }

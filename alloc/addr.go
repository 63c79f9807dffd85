package alloc

import "github.com/heapkit/segheap/region"

// Addr is a byte offset into a Heap's underlying region.
type Addr = region.Addr

// NullAddr is the free-list "no link" sentinel.
const NullAddr = region.NullAddr

const (
	// Alignment is the byte alignment guaranteed for every payload address.
	Alignment = 8

	headerSize = 8 // size|free, low bit aliased as the free flag
	footerSize = 8 // mirrors the header's size
	addrSize   = 8 // width of an Addr stored as a free-list link

	// MinPayloadSize is the smallest payload a block can offer: room for
	// the {next, prev} free-list links a block stores in its own payload
	// once freed.
	MinPayloadSize = 2 * addrSize

	// DefaultMinBlockPow and DefaultMaxBlockPow size the default bin
	// index: NumBins = DefaultMaxBlockPow - DefaultMinBlockPow bins,
	// covering block sizes from 1<<DefaultMinBlockPow up to
	// 1<<DefaultMaxBlockPow.
	DefaultMinBlockPow = 5
	DefaultMaxBlockPow = 29

	// DefaultShrinkMin is the minimum leftover size (post-split) worth
	// keeping as its own free block rather than left as internal
	// fragmentation.
	DefaultShrinkMin = 64

	cacheLineSize = 64
)

// alignUp rounds n up to the nearest multiple of Alignment.
func alignUp(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// Package alloc implements a segregated free-list heap allocator on top of
// a single monotonically extensible region (package region).
//
// Blocks are tagged with an 8-byte header and an 8-byte footer, both
// storing the block's total size (header plus payload plus footer); the
// header additionally aliases its low bit with the block's free/used
// state, exploiting the fact that every block size is a multiple of
// Alignment. Free blocks are threaded into one of NumBins doubly-linked
// lists, classified by the position of the highest set bit of their size;
// the links live inside the free block's own payload, so no side
// structure is needed to track them.
//
// Allocate pulls the first adequately-sized block from the smallest
// non-empty bin that can satisfy a request (first-fit within a bin,
// good-fit across bins), splitting off and recycling any oversized
// remainder. Release coalesces a freed block with any free neighbor
// before returning it to the bin index, so no two free blocks are ever
// adjacent. Resize shrinks in place, grows in place at the heap frontier,
// optionally absorbs a free right neighbor, or falls back to
// allocate-copy-release.
package alloc

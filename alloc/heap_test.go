package alloc

import (
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHeap(t *testing.T, capacity int) *Heap {
	t.Helper()
	h, err := NewHeap(capacity)
	require.NoError(t, err)
	return h
}

func overlap(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(&a[0]))
	aEnd := aStart + uintptr(len(a))
	bStart := uintptr(unsafe.Pointer(&b[0]))
	bEnd := bStart + uintptr(len(b))
	return !(aEnd <= bStart || bEnd <= aStart)
}

func TestNewHeap(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"valid", 1 << 20, false},
		{"small", 4096, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHeap(tt.size)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewHeapWithBlockSizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		min     int
		max     int
		shrink  int
		wantErr bool
	}{
		{"valid", 5, 29, 64, false},
		{"min_not_positive", 0, 29, 64, true},
		{"max_le_min", 10, 10, 64, true},
		{"min_too_small", 1, 29, 64, true},
		{"shrink_too_small", 5, 29, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHeapWithBlockSize(1<<20, tt.min, tt.max, tt.shrink)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAllocFree(t *testing.T) {
	h := newTestHeap(t, 1<<20)

	b1 := h.Alloc(1024)
	require.NotNil(t, b1)
	assert.Equal(t, 1024, len(b1))

	for i := range b1 {
		b1[i] = byte(i)
	}

	b2 := h.Alloc(8192)
	require.NotNil(t, b2)
	assert.False(t, overlap(b1, b2))

	h.Free(b1)
	b3 := h.Alloc(512)
	require.NotNil(t, b3)
}

func TestAllocZero(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	assert.Nil(t, h.Alloc(0))
	assert.Nil(t, h.Alloc(-1))
}

func TestAllocSizes(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	sizes := []int{1, 17, 100, 1024, 4096, 16384}
	for _, sz := range sizes {
		b := h.Alloc(sz)
		require.NotNil(t, b, "size=%d", sz)
		assert.Equal(t, sz, len(b))
		h.Free(b)
	}
}

func TestFreeNilAndEmpty(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	assert.NotPanics(t, func() { h.Free(nil) })
	assert.NotPanics(t, func() { h.Free([]byte{}) })
}

func TestCoalescingReclaimsSpace(t *testing.T) {
	h := newTestHeap(t, 1<<16)

	b1 := h.Alloc(512)
	b2 := h.Alloc(512)
	h.Free(b1)
	h.Free(b2)
	before := h.High()

	big := h.Alloc(900)
	require.NotNil(t, big)
	assert.Equal(t, before, h.High(), "coalesced space should satisfy the request without growing")
}

func TestResizeGrowInPlaceAtFrontier(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	b := h.Alloc(64)
	for i := range b {
		b[i] = byte(i + 1)
	}
	grown := h.Resize(b, 256)
	require.NotNil(t, grown)
	assert.Equal(t, 256, len(grown))
	for i := 0; i < 64; i++ {
		assert.Equal(t, byte(i+1), grown[i])
	}
}

func TestResizeShrink(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	b := h.Alloc(4096)
	shrunk := h.Resize(b, 32)
	require.NotNil(t, shrunk)
	assert.Equal(t, 32, len(shrunk))
}

func TestResizeSameSizeIsNoop(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	b := h.Alloc(100)
	got := h.Resize(b, 100)
	assert.Equal(t, unsafe.Pointer(&b[0]), unsafe.Pointer(&got[0]))
}

func TestResizeToZeroFrees(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	b := h.Alloc(100)
	got := h.Resize(b, 0)
	assert.Nil(t, got)
}

func TestResizeNilAllocates(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	got := h.Resize(nil, 64)
	require.NotNil(t, got)
	assert.Equal(t, 64, len(got))
}

func TestResizeFallsBackToCopy(t *testing.T) {
	h := newTestHeap(t, 1<<20)
	b1 := h.Alloc(64)
	b2 := h.Alloc(64) // pins b1's right neighbor so growth can't happen in place
	for i := range b1 {
		b1[i] = byte(i + 1)
	}
	grown := h.Resize(b1, 4096)
	require.NotNil(t, grown)
	assert.Equal(t, 4096, len(grown))
	for i := 0; i < 64; i++ {
		assert.Equal(t, byte(i+1), grown[i])
	}
	h.Free(b2)
	h.Free(grown)
}

func TestAllocExhaustion(t *testing.T) {
	h := newTestHeap(t, 64*1024)

	var blocks [][]byte
	for {
		b := h.Alloc(1024)
		if b == nil {
			break
		}
		blocks = append(blocks, b)
	}
	assert.NotEmpty(t, blocks)
	assert.Nil(t, h.Alloc(1<<20))

	for _, b := range blocks {
		h.Free(b)
	}
	large := h.Alloc(32 * 1024)
	require.NotNil(t, large)
}

func TestReset(t *testing.T) {
	h := newTestHeap(t, 1<<16)
	low := h.Low()
	b := h.Alloc(1024)
	require.NotNil(t, b)

	h.Reset()
	assert.Equal(t, low, h.Low())
	assert.Equal(t, h.Low(), h.High())

	b2 := h.Alloc(1024)
	require.NotNil(t, b2)
}

func TestRandomAllocFreeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	h := newTestHeap(t, 4<<20)

	var blocks [][]byte
	sizes := []int{8, 64, 256, 1024, 4096, 16384}

	for i := 0; i < 20000; i++ {
		if len(blocks) == 0 || rng.Intn(3) != 0 {
			sz := sizes[rng.Intn(len(sizes))]
			b := h.Alloc(sz)
			if b != nil {
				for j := range b {
					b[j] = byte(i)
				}
				blocks = append(blocks, b)
			}
		} else {
			idx := rng.Intn(len(blocks))
			h.Free(blocks[idx])
			blocks[idx] = blocks[len(blocks)-1]
			blocks = blocks[:len(blocks)-1]
		}
	}

	for _, b := range blocks {
		h.Free(b)
	}

	big := h.Alloc(1 << 19)
	require.NotNil(t, big)
}

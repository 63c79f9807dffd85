package alloc

import "math/bits"

// numBinsFor returns NumBins for a given [minPow, maxPow) block-size
// range.
func numBinsFor(minPow, maxPow int) int {
	return maxPow - minPow
}

// binOf classifies size into a bin index: the position of its highest set
// bit, shifted by minPow, clamped into [0, numBins).
func binOf(size int64, minPow, numBins int) int {
	if size <= 0 {
		return 0
	}
	class := bits.Len64(uint64(size)) - 1 - minPow
	if class < 0 {
		class = 0
	}
	if class >= numBins {
		class = numBins - 1
	}
	return class
}

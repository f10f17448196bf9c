package lib

import "math/bits"

// Log2 position of the most significant set bit in x, in other words
// floor of log base 2. Argument should be positive.
func Log2(x int64) int {
	return 63 - bits.LeadingZeros64(uint64(x))
}

// Ispow2 whether x is an exact power of 2.
func Ispow2(x int64) bool {
	return x > 0 && (x&(x-1)) == 0
}

// Alignup round size up to the next multiple of align, where align is
// a power of 2. Align of zero or less leaves size untouched.
func Alignup(size, align int64) int64 {
	if align <= 0 {
		return size
	}
	if delta := size & (align - 1); delta != 0 {
		return size + (align - delta)
	}
	return size
}

package rawio

import (
	"mipiraw/pkg/mipiraw"
)

// AlignedStride returns the packed row length for width pixels rounded up to
// a multiple of align bytes. An align below 2 means no rounding.
func AlignedStride(width int, depth mipiraw.BitDepth, packing mipiraw.Packing, align int) int {
	n := mipiraw.RowBytes(width, depth, packing)
	if align > 1 {
		n = (n + align - 1) / align * align
	}
	return n
}

// DeriveStride infers the row stride from the size of a frame of the given
// height. It reports false when size is not a whole number of rows.
func DeriveStride(size int, height int) (int, bool) {
	if height <= 0 || size <= 0 || size%height != 0 {
		return 0, false
	}
	return size / height, true
}

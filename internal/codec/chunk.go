// Package codec implements the Exponential-Golomb bit engine: the packed
// bit buffer, the symbol encoder/decoder, ZigZag mapping, and the adaptive
// order controller. It has no notion of files, flags, or CLI formats; those
// live in the golomb and valuefmt packages.
package codec

import "math/bits"

// Chunk is the set of unsigned integer types usable as the packed output
// unit of the bitstream (the "D" width in the wire format).
type Chunk interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// maskW returns a mask with the low width bits set. width must be in
// [0, 64].
func maskW(width int) uint64 {
	if width <= 0 {
		return 0
	}
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

// BitWidth returns the position of the highest set bit in v, counting from
// 1, i.e. the number of bits required to represent v (0 for v == 0).
func BitWidth(v uint64) int {
	return bits.Len64(v)
}

// SignExtend reinterprets the low width bits of u as a two's-complement
// signed value and sign-extends it to a full int64.
func SignExtend(u uint64, width int) int64 {
	if width >= 64 {
		return int64(u)
	}
	shift := uint(64 - width)
	return int64(u<<shift) >> shift
}

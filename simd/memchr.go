package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = uint64(0x0101010101010101)
	hi8 = uint64(0x8080808080808080)
	lo7 = uint64(0x7F7F7F7F7F7F7F7F)
)

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// The search uses SWAR (SIMD Within A Register): 8 bytes are loaded as one
// uint64 and tested for a matching byte with a handful of integer
// operations.
//
// Algorithm:
//  1. Create a mask with needle replicated in every byte of uint64
//  2. Read 8 bytes from haystack as uint64
//  3. XOR with mask (matching bytes become 0x00)
//  4. Use zero-byte detection formula to find first zero
//  5. Extract position using trailing zero count
//
// Example:
//
//	haystack := []byte{0x90, 0x90, 0xE8, 0x12}
//	pos := simd.Memchr(haystack, 0xE8)
//	// pos == 2
func Memchr(haystack []byte, needle byte) int {
	haystackLen := len(haystack)
	if haystackLen == 0 {
		return -1
	}

	// For small inputs, byte-by-byte is faster (no setup overhead)
	if haystackLen < 8 {
		for idx := 0; idx < haystackLen; idx++ {
			if haystack[idx] == needle {
				return idx
			}
		}
		return -1
	}

	// Example: needle=0x42 -> needleMask=0x4242424242424242
	needleMask := uint64(needle) * lo8

	idx := 0
	for idx+8 <= haystackLen {
		chunk := binary.LittleEndian.Uint64(haystack[idx:])
		xor := chunk ^ needleMask

		// Hacker's Delight zero-byte test. Bytes above the first zero may be
		// flagged spuriously, but the lowest flagged byte is always exact.
		hasZero := (xor - lo8) & ^xor & hi8
		if hasZero != 0 {
			return idx + bits.TrailingZeros64(hasZero)/8
		}

		idx += 8
	}

	for idx < haystackLen {
		if haystack[idx] == needle {
			return idx
		}
		idx++
	}

	return -1
}

// MemchrPair finds the first position where byte1 appears at offset 0 and byte2
// appears at the specified offset from byte1.
//
// Parameters:
//   - haystack: the byte slice to search
//   - byte1: the first byte to find (anchor byte)
//   - byte2: the second byte to find
//   - offset: the distance from byte1 to byte2 (byte2 position = byte1 position + offset)
//
// Returns the position of byte1 where both conditions are met, or -1 if not found.
// Every returned position satisfies pos+offset < len(haystack).
//
// Example:
//
//	// call rel32 followed by a test four bytes later: E8 ?? ?? ?? ?? 85
//	pos := simd.MemchrPair(code, 0xE8, 0x85, 5)
func MemchrPair(haystack []byte, byte1, byte2 byte, offset int) int {
	haystackLen := len(haystack)
	if haystackLen == 0 || offset < 0 || haystackLen <= offset {
		return -1
	}

	if offset == 0 {
		if byte1 != byte2 {
			return -1 // Impossible: same position, different bytes
		}
		return Memchr(haystack, byte1)
	}

	// For small inputs or small remaining space, byte-by-byte is simpler
	if haystackLen < 8+offset {
		for i := 0; i+offset < haystackLen; i++ {
			if haystack[i] == byte1 && haystack[i+offset] == byte2 {
				return i
			}
		}
		return -1
	}

	needleMask1 := uint64(byte1) * lo8
	needleMask2 := uint64(byte2) * lo8

	idx := 0
	for idx+8+offset <= haystackLen {
		chunk1 := binary.LittleEndian.Uint64(haystack[idx:])
		chunk2 := binary.LittleEndian.Uint64(haystack[idx+offset:])

		// Bit k of each mask is set iff haystack[idx+k] == byte1 and
		// haystack[idx+offset+k] == byte2 respectively. The exact zero-byte
		// test is required here: spurious bits from the borrow-based test
		// would survive the AND and report a false pair.
		hasBoth := zeroBytes(chunk1^needleMask1) & zeroBytes(chunk2^needleMask2)
		if hasBoth != 0 {
			return idx + bits.TrailingZeros64(hasBoth)/8
		}

		idx += 8
	}

	for idx+offset < haystackLen {
		if haystack[idx] == byte1 && haystack[idx+offset] == byte2 {
			return idx
		}
		idx++
	}

	return -1
}

// zeroBytes sets the high bit of every byte of x that is zero, and only
// those bytes.
func zeroBytes(x uint64) uint64 {
	return ^((x&lo7 + lo7) | x | lo7)
}

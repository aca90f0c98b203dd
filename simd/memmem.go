package simd

import "bytes"

// Finder searches haystacks for one fixed byte string. The anchor bytes are
// chosen once, when the Finder is made, using ByteFrequencies.
//
// A Finder is a small value and is safe for concurrent use.
type Finder struct {
	needle []byte
	rare   RareByteInfo
}

// NewFinder returns a Finder for needle. The needle is not copied and must
// not be modified while the Finder is in use.
func NewFinder(needle []byte) Finder {
	return Finder{needle: needle, rare: SelectRareBytes(needle, nil)}
}

// Needle returns the byte string the Finder searches for.
func (f Finder) Needle() []byte {
	return f.needle
}

// Index returns the index of the first instance of the needle in haystack,
// or -1 if it is not present. An empty needle matches at 0.
//
// Algorithm:
//  1. Jump to the next position where the two rarest needle bytes sit at
//     their distance (MemchrPair), or the rarest byte alone when the needle
//     has only one distinct value (Memchr)
//  2. Verify the whole needle at that candidate
//  3. On mismatch, resume one byte after the candidate
func (f Finder) Index(haystack []byte) int {
	n := len(f.needle)
	switch {
	case n == 0:
		return 0
	case len(haystack) < n:
		return -1
	case n == 1:
		return Memchr(haystack, f.needle[0])
	}

	last := len(haystack) - n
	k1, k2 := f.rare.Index1, f.rare.Index2
	for p := 0; p <= last; p++ {
		var i int
		if f.rare.Count == 2 {
			i = MemchrPair(haystack[p+k1:last+k2+1], f.rare.Byte1, f.rare.Byte2, k2-k1)
		} else {
			i = Memchr(haystack[p+k1:last+k1+1], f.rare.Byte1)
		}
		if i < 0 {
			return -1
		}
		p += i
		if bytes.Equal(haystack[p:p+n], f.needle) {
			return p
		}
	}
	return -1
}

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// This is equivalent to bytes.Index. Candidates are located with the rare
// byte heuristic on SWAR scans, which pays off on machine code where the
// first byte of a needle (0x48, 0x8B, 0xE8) is usually among the most
// common bytes in the image.
//
// Example:
//
//	code := []byte{0x90, 0x48, 0x8B, 0x05, 0x10}
//	pos := simd.Memmem(code, []byte{0x8B, 0x05})
//	// pos == 2
func Memmem(haystack, needle []byte) int {
	return NewFinder(needle).Index(haystack)
}

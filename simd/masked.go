package simd

import "encoding/binary"

// Kernel reports whether hay[i]&mask[i] == value[i] for every i below the
// kernel's width. All three slices must hold at least that many bytes, and
// value must already be normalized (value[i]&^mask[i] == 0).
//
// A kernel never reads beyond its width, so callers can hand it a window
// that ends exactly at the end of the haystack.
type Kernel func(hay, value, mask []byte) bool

// kernels is the dispatch table from Method to its compare step. Call sites
// go through Kernel or MaskedEqual and never branch on the width themselves.
var kernels = [numMethods]Kernel{
	Scalar:    equal1,
	SWAR32:    equal4,
	SWAR64:    equal8,
	Vector128: equal16,
	Vector256: equal32,
}

// Kernel returns the compare step for m. Invalid methods get the Scalar step.
func (m Method) Kernel() Kernel {
	if !m.Valid() {
		return equal1
	}
	return kernels[m]
}

// MaskedEqual compares the whole of hay against a normalized value/mask pair
// of the same length, using m's width for the bulk of the bytes and a
// byte-at-a-time tail.
//
// Returns false when the lengths differ.
func MaskedEqual(m Method, hay, value, mask []byte) bool {
	n := len(value)
	if len(hay) != n || len(mask) != n {
		return false
	}

	w := m.Width()
	step := m.Kernel()
	i := 0
	for ; i+w <= n; i += w {
		if !step(hay[i:], value[i:], mask[i:]) {
			return false
		}
	}
	for ; i < n; i++ {
		if hay[i]&mask[i] != value[i] {
			return false
		}
	}
	return true
}

func equal1(hay, value, mask []byte) bool {
	return hay[0]&mask[0] == value[0]
}

func equal4(hay, value, mask []byte) bool {
	h := binary.LittleEndian.Uint32(hay)
	v := binary.LittleEndian.Uint32(value)
	m := binary.LittleEndian.Uint32(mask)
	return (h^v)&m == 0
}

func equal8(hay, value, mask []byte) bool {
	return diff8(hay, value, mask) == 0
}

// equal16 and equal32 fold the lanes with OR before the single test, so a
// mismatch anywhere in the window costs one branch.
func equal16(hay, value, mask []byte) bool {
	_, _, _ = hay[15], value[15], mask[15]
	return diff8(hay, value, mask)|diff8(hay[8:], value[8:], mask[8:]) == 0
}

func equal32(hay, value, mask []byte) bool {
	_, _, _ = hay[31], value[31], mask[31]
	return diff8(hay, value, mask)|
		diff8(hay[8:], value[8:], mask[8:])|
		diff8(hay[16:], value[16:], mask[16:])|
		diff8(hay[24:], value[24:], mask[24:]) == 0
}

// diff8 returns the masked XOR of one 8-byte lane; zero means equal.
func diff8(hay, value, mask []byte) uint64 {
	h := binary.LittleEndian.Uint64(hay)
	v := binary.LittleEndian.Uint64(value)
	m := binary.LittleEndian.Uint64(mask)
	return (h ^ v) & m
}

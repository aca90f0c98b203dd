package simd

import (
	"fmt"
	"strings"
)

// Method is the comparison granularity used to test a needle prefix against
// the haystack in a single step.
//
// The choice only affects speed. Every Method finds exactly the same matches
// as Scalar, which is the reference implementation.
type Method uint8

const (
	// Scalar compares 1 byte at a time (architecture independent).
	Scalar Method = iota
	// SWAR32 compares 4 bytes at a time in a uint32.
	SWAR32
	// SWAR64 compares 8 bytes at a time in a uint64 (64-bit hosts only).
	SWAR64
	// Vector128 compares 16 bytes per step (SSE2 on x86-64, ASIMD on arm64).
	Vector128
	// Vector256 compares 32 bytes per step (AVX2 on x86-64).
	Vector256

	numMethods
)

// Methods lists every Method from narrowest to widest.
var Methods = [numMethods]Method{Scalar, SWAR32, SWAR64, Vector128, Vector256}

var methodWidths = [numMethods]int{1, 4, 8, 16, 32}

var methodNames = [numMethods]string{"scalar", "swar32", "swar64", "vector128", "vector256"}

// Width returns the number of bytes compared per step.
func (m Method) Width() int {
	if m >= numMethods {
		return 1
	}
	return methodWidths[m]
}

// String returns the lower-case method name.
func (m Method) String() string {
	if m >= numMethods {
		return fmt.Sprintf("method(%d)", uint8(m))
	}
	return methodNames[m]
}

// Valid reports whether m is one of the defined methods.
func (m Method) Valid() bool {
	return m < numMethods
}

// ParseMethod parses a method name as returned by String. Widths in bytes
// ("1", "4", "8", "16", "32") are accepted too.
func ParseMethod(s string) (Method, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range methodNames {
		if s == name {
			return Method(i), true
		}
	}
	for i, w := range methodWidths {
		if s == fmt.Sprint(w) {
			return Method(i), true
		}
	}
	return Scalar, false
}

// MethodForWidth returns the method comparing exactly width bytes per step.
func MethodForWidth(width int) (Method, bool) {
	for i, w := range methodWidths {
		if w == width {
			return Method(i), true
		}
	}
	return Scalar, false
}

// Select picks the widest method in caps whose width does not exceed the
// needle length n. Scalar is the answer when nothing wider fits; it is
// always available.
//
// Example:
//
//	m := simd.Select(12, simd.Detect())
//	// SWAR64 on a 64-bit host: 16 and 32 are longer than the needle.
func Select(n int, caps Capabilities) Method {
	for i := len(Methods) - 1; i > 0; i-- {
		m := Methods[i]
		if caps.Has(m) && m.Width() <= n {
			return m
		}
	}
	return Scalar
}

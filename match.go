package aob

import "fmt"

// Match is one occurrence of a Needle in a haystack.
//
// A Match contains:
//   - Start position (inclusive)
//   - End position (exclusive), always Start + needle length
//   - Reference to the searched haystack
//
// Match is a small value type; searches return it without allocating.
//
// Example:
//
//	m, ok := aob.MustCompile("8B ? 85").Find(code)
//	if ok {
//	    fmt.Println(m.Start(), m) // 2 8B 45 85
//	}
type Match struct {
	start    int
	end      int
	haystack []byte
}

func newMatch(start, end int, haystack []byte) Match {
	return Match{start: start, end: end, haystack: haystack}
}

// Start returns the inclusive start offset of the match.
func (m Match) Start() int {
	return m.start
}

// End returns the exclusive end offset of the match.
func (m Match) End() int {
	return m.end
}

// Len returns the length of the match in bytes.
func (m Match) Len() int {
	return m.end - m.start
}

// Bytes returns the matched bytes.
//
// The returned slice is a view into the original haystack (not a copy).
// Callers should copy the bytes if they need to retain them after the
// haystack is modified or unmapped.
func (m Match) Bytes() []byte {
	if m.start < 0 || m.end > len(m.haystack) || m.start > m.end {
		return nil
	}
	return m.haystack[m.start:m.end]
}

// String returns the matched bytes as upper-case hex separated by spaces,
// e.g. "48 8B 05".
func (m Match) String() string {
	return fmt.Sprintf("% X", m.Bytes())
}

// Contains returns true if the given offset is within the match range.
//
// Returns true if start <= pos < end.
func (m Match) Contains(pos int) bool {
	return pos >= m.start && pos < m.end
}

package aob

import "github.com/coregx/aob/prefilter"

// Find returns the leftmost occurrence of the needle in haystack.
//
// An empty haystack, or one shorter than the needle, has no matches.
//
// Example:
//
//	n := aob.MustCompile("67 ? AB")
//	m, ok := n.Find([]byte{0x00, 0x67, 0x11, 0xAB})
//	// ok == true, m.Start() == 1, m.End() == 4
func (n *Needle) Find(haystack []byte) (Match, bool) {
	return n.FindAt(haystack, 0)
}

// FindAt returns the leftmost occurrence starting at or after offset start.
// Offsets are absolute; a negative start is treated as 0.
func (n *Needle) FindAt(haystack []byte, start int) (Match, bool) {
	tracker := prefilter.NewTracker(n.pre)
	pos := n.index(haystack, start, &tracker)
	if pos < 0 {
		return Match{}, false
	}
	return newMatch(pos, pos+len(n.values), haystack), true
}

// FindAll returns successive, possibly overlapping, occurrences in
// ascending order of start offset. If limit > 0, it returns at most limit
// matches. If limit < 0, it returns all matches. If limit == 0, it returns nil.
//
// Example:
//
//	n := aob.MustCompile("AA AA")
//	ms := n.FindAll([]byte{0xAA, 0xAA, 0xAA}, -1)
//	// len(ms) == 2: starts 0 and 1
func (n *Needle) FindAll(haystack []byte, limit int) []Match {
	if limit == 0 {
		return nil
	}

	var matches []Match
	tracker := prefilter.NewTracker(n.pre)
	for pos := n.index(haystack, 0, &tracker); pos >= 0; pos = n.index(haystack, pos+1, &tracker) {
		matches = append(matches, newMatch(pos, pos+len(n.values), haystack))
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches
}

// Count returns the number of occurrences in haystack, overlapping ones
// included.
func (n *Needle) Count(haystack []byte) int {
	count := 0
	tracker := prefilter.NewTracker(n.pre)
	for pos := n.index(haystack, 0, &tracker); pos >= 0; pos = n.index(haystack, pos+1, &tracker) {
		count++
	}
	return count
}

// index returns the first p >= start where the needle matches, or -1.
//
// While the tracker is active, candidates come from the prefilter; once it
// is retired (or when the needle has none) every offset is tested.
func (n *Needle) index(haystack []byte, start int, tracker *prefilter.Tracker) int {
	if start < 0 {
		start = 0
	}
	last := len(haystack) - len(n.values)
	for p := start; p <= last; p++ {
		if tracker.IsActive() {
			if p = tracker.Find(haystack, p); p < 0 {
				return -1
			}
			if tracker.IsComplete() {
				tracker.ConfirmMatch()
				return p
			}
		}
		if n.matchAt(haystack, p) {
			tracker.ConfirmMatch()
			return p
		}
	}
	return -1
}

// matchAt tests the needle at offset p. The caller guarantees
// p+len(n.values) <= len(haystack).
func (n *Needle) matchAt(haystack []byte, p int) bool {
	w := n.width
	if !n.kernel(haystack[p:], n.values, n.masks) {
		return false
	}
	hay := haystack[p : p+len(n.values)]
	for i := w; i < len(hay); i++ {
		if hay[i]&n.masks[i] != n.values[i] {
			return false
		}
	}
	return true
}

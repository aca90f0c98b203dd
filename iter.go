package aob

import (
	"iter"

	"github.com/coregx/aob/prefilter"
)

// Iterator walks the occurrences of a needle in one haystack in ascending
// order of start offset. Overlapping occurrences are all reported.
//
// An Iterator holds a cursor and must not be shared between goroutines;
// the Needle it came from may be.
//
// Example:
//
//	it := n.FindIter(image)
//	for m, ok := it.Next(); ok; m, ok = it.Next() {
//	    fmt.Printf("%#x\n", m.Start())
//	}
type Iterator struct {
	needle   *Needle
	haystack []byte
	pos      int // next candidate offset
	done     bool
	tracker  prefilter.Tracker
}

// FindIter returns an Iterator over every occurrence in haystack.
func (n *Needle) FindIter(haystack []byte) *Iterator {
	return &Iterator{needle: n, haystack: haystack, tracker: prefilter.NewTracker(n.pre)}
}

// Next returns the next occurrence. Once it reports false it keeps doing so;
// a fresh FindIter call starts a new, independent walk.
func (it *Iterator) Next() (Match, bool) {
	if it.done {
		return Match{}, false
	}
	n := it.needle
	pos := n.index(it.haystack, it.pos, &it.tracker)
	if pos < 0 {
		it.done = true
		return Match{}, false
	}
	it.pos = pos + 1
	return newMatch(pos, pos+len(n.values), it.haystack), true
}

// Stats returns the prefilter counters of this walk so far. Stats.Active is
// false when the needle has no prefilter or it has been retired.
func (it *Iterator) Stats() prefilter.Stats {
	return it.tracker.Stats()
}

// All returns an iterator over every occurrence in haystack, for use with
// range:
//
//	for m := range n.All(image) {
//	    fmt.Println(m.Start())
//	}
func (n *Needle) All(haystack []byte) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		tracker := prefilter.NewTracker(n.pre)
		for pos := n.index(haystack, 0, &tracker); pos >= 0; pos = n.index(haystack, pos+1, &tracker) {
			if !yield(newMatch(pos, pos+len(n.values), haystack)) {
				return
			}
		}
	}
}

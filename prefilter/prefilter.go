// Package prefilter finds candidate needle positions before the full masked
// comparison runs.
//
// A prefilter looks only at the exact (mask 0xFF) units of a needle and jumps
// through the haystack with SWAR byte search instead of testing every
// offset. The strategy is chosen once per needle:
//   - Every unit exact → Memmem over the whole needle (complete: a
//     candidate is a match)
//   - A run of at least 4 exact bytes → Memmem over the longest run
//   - Two distinct exact bytes → MemchrPair on the two rarest
//   - One distinct exact byte → Memchr on it
//   - No exact unit → no prefilter; every offset is a candidate
//
// Example usage:
//
//	pf := prefilter.New(values, masks)
//	for p := pf.Find(haystack, 0); p >= 0; p = pf.Find(haystack, p+1) {
//	    if verify(haystack, p) {
//	        return p
//	    }
//	}
package prefilter

import (
	"fmt"

	"github.com/coregx/aob/simd"
)

// Prefilter finds candidate start offsets of one needle.
type Prefilter interface {
	// Find returns the first candidate start p >= start, or -1 if there is
	// none. Every returned p satisfies p+NeedleLen() <= len(haystack), so
	// the caller can verify the needle at p without bounds checks of its
	// own. A negative start is treated as 0.
	//
	// A candidate has every prefilter byte in place. It is NOT guaranteed
	// to match the needle unless IsComplete() is true.
	Find(haystack []byte, start int) int

	// IsComplete returns true if a candidate is always a full match.
	IsComplete() bool

	// NeedleLen returns the length of the needle the prefilter was built for.
	NeedleLen() int

	// String describes the strategy, e.g. "pair(0x05@2, 0x85@7)".
	String() string
}

// MinRunLen is the shortest exact run for which Memmem is preferred over a
// rare byte pair.
const MinRunLen = 4

// New builds the prefilter for a needle given as normalized value and mask
// bytes. It returns nil when the needle has no exact unit.
func New(values, masks []byte) Prefilter {
	n := len(values)
	if n == 0 {
		return nil
	}

	runStart, runLen := longestExactRun(masks)
	switch {
	case runLen == n:
		return &memmemPrefilter{finder: simd.NewFinder(values), offset: 0, needleLen: n, complete: true}
	case runLen >= MinRunLen:
		return &memmemPrefilter{finder: simd.NewFinder(values[runStart : runStart+runLen]), offset: runStart, needleLen: n}
	}

	rare := simd.SelectRareBytes(values, masks)
	switch rare.Count {
	case 2:
		return &pairPrefilter{rare: rare, needleLen: n}
	case 1:
		return &memchrPrefilter{needle: rare.Byte1, offset: rare.Index1, needleLen: n}
	default:
		return nil
	}
}

// longestExactRun returns the first longest run of 0xFF masks.
func longestExactRun(masks []byte) (start, length int) {
	cur := 0
	for i, m := range masks {
		if m != 0xFF {
			cur = 0
			continue
		}
		cur++
		if cur > length {
			start, length = i-cur+1, cur
		}
	}
	return start, length
}

// bounds clamps start and returns the last candidate offset for a needle of
// length n, or ok == false when no candidate fits.
func bounds(haystack []byte, start, n int) (from, last int, ok bool) {
	if start < 0 {
		start = 0
	}
	last = len(haystack) - n
	return start, last, start <= last
}

// memchrPrefilter locates candidates by one exact byte at a fixed offset
// within the needle.
type memchrPrefilter struct {
	needle    byte
	offset    int
	needleLen int
}

// Find implements Prefilter.Find using simd.Memchr.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	start, last, ok := bounds(haystack, start, p.needleLen)
	if !ok {
		return -1
	}
	// Anchor positions of candidates start..last are offset+start..offset+last.
	idx := simd.Memchr(haystack[start+p.offset:last+p.offset+1], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchrPrefilter) IsComplete() bool {
	return p.needleLen == 1
}

// NeedleLen implements Prefilter.NeedleLen.
func (p *memchrPrefilter) NeedleLen() int {
	return p.needleLen
}

func (p *memchrPrefilter) String() string {
	return fmt.Sprintf("memchr(%#02x@%d)", p.needle, p.offset)
}

// pairPrefilter locates candidates by two distinct exact bytes at a fixed
// distance.
type pairPrefilter struct {
	rare      simd.RareByteInfo
	needleLen int
}

// Find implements Prefilter.Find using simd.MemchrPair.
func (p *pairPrefilter) Find(haystack []byte, start int) int {
	start, last, ok := bounds(haystack, start, p.needleLen)
	if !ok {
		return -1
	}
	k1, k2 := p.rare.Index1, p.rare.Index2
	// The window ends at the second anchor of candidate last, so every pair
	// MemchrPair reports belongs to a candidate in range.
	idx := simd.MemchrPair(haystack[start+k1:last+k2+1], p.rare.Byte1, p.rare.Byte2, k2-k1)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *pairPrefilter) IsComplete() bool {
	return false
}

// NeedleLen implements Prefilter.NeedleLen.
func (p *pairPrefilter) NeedleLen() int {
	return p.needleLen
}

func (p *pairPrefilter) String() string {
	return fmt.Sprintf("pair(%#02x@%d, %#02x@%d)", p.rare.Byte1, p.rare.Index1, p.rare.Byte2, p.rare.Index2)
}

// memmemPrefilter locates candidates by a run of exact bytes.
type memmemPrefilter struct {
	finder    simd.Finder
	offset    int
	needleLen int
	complete  bool
}

// Find implements Prefilter.Find using a simd.Finder.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	start, last, ok := bounds(haystack, start, p.needleLen)
	if !ok {
		return -1
	}
	runLen := len(p.finder.Needle())
	idx := p.finder.Index(haystack[start+p.offset : last+p.offset+runLen])
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// NeedleLen implements Prefilter.NeedleLen.
func (p *memmemPrefilter) NeedleLen() int {
	return p.needleLen
}

func (p *memmemPrefilter) String() string {
	return fmt.Sprintf("memmem(%d bytes@%d)", len(p.finder.Needle()), p.offset)
}

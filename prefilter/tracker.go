package prefilter

// Tracker wraps a Prefilter with skip distance tracking.
//
// A prefilter only pays off when it jumps over many bytes per candidate. On
// inputs where the prefilter bytes are everywhere (padding, repeated opcodes)
// each call costs a Memchr setup and returns a few bytes later, which is
// slower than testing every offset with the masked kernel. The tracker
// measures the average distance between the search start and the candidate
// and retires the prefilter once that average is too small.
//
// Algorithm:
//  1. Track candidates (prefilter finds) and bytes skipped to reach them
//  2. After the warmup period, check the average skip every N candidates
//  3. If the average is below the threshold, disable the prefilter
//  4. Once disabled, never re-enable (for this search)
//
// A Tracker belongs to one search and must not be shared between
// goroutines.
//
// Example usage:
//
//	tracker := prefilter.NewTracker(prefilter.New(values, masks))
//	for p := 0; p <= last; p++ {
//	    if tracker.IsActive() {
//	        if p = tracker.Find(haystack, p); p == -1 {
//	            break
//	        }
//	    }
//	    if verify(haystack, p) {
//	        tracker.ConfirmMatch()
//	        return p
//	    }
//	}
type Tracker struct {
	inner Prefilter

	// Statistics
	candidates uint64 // Candidate positions found
	confirms   uint64 // Candidates that were full matches
	skipped    uint64 // Bytes jumped over to reach the candidates

	// Configuration
	checkInterval  uint64
	minAvgSkip     float64
	warmupPeriod   uint64
	lastCheckpoint uint64

	active bool
}

// TrackerConfig holds configuration for the skip distance tracker.
type TrackerConfig struct {
	// CheckInterval is how often to check the average skip (in candidates).
	// Default: 16
	CheckInterval uint64

	// MinAvgSkip is the minimum acceptable average number of bytes skipped
	// per candidate. Below it the prefilter is disabled.
	// Default: 8
	MinAvgSkip float64

	// WarmupPeriod is the number of candidates found before the first check.
	// Default: 50
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns the default tracker configuration.
//
// The values follow memchr's memmem heuristic: after 50 candidates a
// prefilter must average at least 8 skipped bytes per candidate.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 16,
		MinAvgSkip:    8,
		WarmupPeriod:  50,
	}
}

// NewTracker creates a tracker for the given prefilter with default config.
//
// A nil prefilter gives a tracker that is inactive from the start.
func NewTracker(inner Prefilter) Tracker {
	return NewTrackerWithConfig(inner, DefaultTrackerConfig())
}

// NewTrackerWithConfig creates a tracker with custom configuration.
func NewTrackerWithConfig(inner Prefilter, config TrackerConfig) Tracker {
	return Tracker{
		inner:         inner,
		checkInterval: config.CheckInterval,
		minAvgSkip:    config.MinAvgSkip,
		warmupPeriod:  config.WarmupPeriod,
		active:        inner != nil,
	}
}

// Find returns the next candidate position at or after start, or -1.
//
// While the tracker is active, -1 means no candidate exists. Once it is
// disabled Find always returns -1 and the caller must test offsets itself.
// A candidate returned on the call that disables the tracker is still valid.
func (t *Tracker) Find(haystack []byte, start int) int {
	if !t.active {
		return -1
	}
	if start < 0 {
		start = 0
	}

	pos := t.inner.Find(haystack, start)
	if pos >= 0 {
		t.candidates++
		t.skipped += uint64(pos - start)
		t.checkSkip()
	}
	return pos
}

// ConfirmMatch records that the last candidate was a full match.
func (t *Tracker) ConfirmMatch() {
	t.confirms++
}

// IsActive returns true if the prefilter is still being used.
func (t *Tracker) IsActive() bool {
	return t.active
}

// IsComplete reports whether candidates from the inner prefilter are always
// full matches. It is false for a tracker without a prefilter.
func (t *Tracker) IsComplete() bool {
	return t.inner != nil && t.inner.IsComplete()
}

// Inner returns the underlying prefilter, which may be nil.
func (t *Tracker) Inner() Prefilter {
	return t.inner
}

// Stats is a snapshot of a tracker's counters.
type Stats struct {
	Candidates uint64
	Confirms   uint64
	Skipped    uint64
	Active     bool
}

// AvgSkip returns the average number of bytes skipped per candidate.
func (s Stats) AvgSkip() float64 {
	if s.Candidates == 0 {
		return 0
	}
	return float64(s.Skipped) / float64(s.Candidates)
}

// Efficiency returns the ratio of confirmed matches to candidates.
func (s Stats) Efficiency() float64 {
	if s.Candidates == 0 {
		return 0
	}
	return float64(s.Confirms) / float64(s.Candidates)
}

// Stats returns the current tracking statistics.
func (t *Tracker) Stats() Stats {
	return Stats{
		Candidates: t.candidates,
		Confirms:   t.confirms,
		Skipped:    t.skipped,
		Active:     t.active,
	}
}

// checkSkip evaluates whether to disable the prefilter. Only performs the
// actual check at configured intervals.
func (t *Tracker) checkSkip() {
	if t.candidates < t.warmupPeriod {
		return
	}
	if t.candidates-t.lastCheckpoint < t.checkInterval {
		return
	}
	t.lastCheckpoint = t.candidates

	if float64(t.skipped)/float64(t.candidates) < t.minAvgSkip {
		t.active = false
	}
}

package utils

import (
	"sort"
	"sync"
	"time"
)

// LatencyTracker keeps the most recent round-trip durations in a fixed ring and
// computes percentiles over them.
type LatencyTracker struct {
	mu      sync.Mutex
	ring    []time.Duration
	next    int
	filled  bool
	total   uint64
	maxSize int
}

// NewLatencyTracker creates a tracker retaining up to maxSize samples.
func NewLatencyTracker(maxSize int) *LatencyTracker {
	if maxSize <= 0 {
		maxSize = 512
	}
	return &LatencyTracker{ring: make([]time.Duration, maxSize), maxSize: maxSize}
}

// Observe records a duration and returns the total number of observations so far.
func (l *LatencyTracker) Observe(d time.Duration) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ring[l.next] = d
	l.next++
	if l.next == l.maxSize {
		l.next = 0
		l.filled = true
	}
	l.total++
	return l.total
}

// Count returns the number of retained samples.
func (l *LatencyTracker) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size()
}

// Percentile returns the p-th percentile (0-100) of retained samples, zero when empty.
func (l *LatencyTracker) Percentile(p float64) time.Duration {
	return l.Percentiles(p)[0]
}

// Percentiles returns one value per requested percentile from a single sorted copy.
func (l *LatencyTracker) Percentiles(ps ...float64) []time.Duration {
	l.mu.Lock()
	sorted := append([]time.Duration(nil), l.ring[:l.size()]...)
	l.mu.Unlock()

	out := make([]time.Duration, len(ps))
	if len(sorted) == 0 {
		return out
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	last := len(sorted) - 1
	for i, p := range ps {
		switch {
		case p <= 0:
			out[i] = sorted[0]
		case p >= 100:
			out[i] = sorted[last]
		default:
			out[i] = sorted[int((p/100.0)*float64(last))]
		}
	}
	return out
}

func (l *LatencyTracker) size() int {
	if l.filled {
		return l.maxSize
	}
	return l.next
}

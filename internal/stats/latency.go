// Package stats aggregates control-call latency for the harness.
package stats

import (
	"sync"
	"time"

	"github.com/influxdata/tdigest"
)

// LatencySummary holds percentile statistics for a set of recorded calls.
type LatencySummary struct {
	Count int64
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// LatencyTracker records round-trip times of backend liveness polls and
// control calls. Percentiles come from a t-digest so memory stays constant
// regardless of how long the backend takes to become ready.
type LatencyTracker struct {
	mu    sync.Mutex
	td    *tdigest.TDigest
	count int64
	total time.Duration
	max   time.Duration
}

// NewLatencyTracker creates an empty tracker.
func NewLatencyTracker() *LatencyTracker {
	return &LatencyTracker{
		td: tdigest.New(),
	}
}

// Record adds one observed round-trip time.
func (t *LatencyTracker) Record(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.td.Add(d.Seconds(), 1)
	t.count++
	t.total += d
	if d > t.max {
		t.max = d
	}
}

// Count returns the number of recorded observations.
func (t *LatencyTracker) Count() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Summary returns percentile statistics over everything recorded so far.
func (t *LatencyTracker) Summary() LatencySummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.count == 0 {
		return LatencySummary{}
	}

	return LatencySummary{
		Count: t.count,
		Mean:  t.total / time.Duration(t.count),
		P50:   secondsToDuration(t.td.Quantile(0.50)),
		P95:   secondsToDuration(t.td.Quantile(0.95)),
		P99:   secondsToDuration(t.td.Quantile(0.99)),
		Max:   t.max,
	}
}

// secondsToDuration converts a float seconds value, guarding NaN from an
// empty digest.
func secondsToDuration(s float64) time.Duration {
	if s != s || s < 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

package metrics

import (
	"sync"
	"time"
)

type tierStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about search tiers and
// the result cache. It is intentionally simple so it can be swapped for a
// real backend later.
type Recorder struct {
	mu          sync.Mutex
	stats       map[string]*tierStats
	cacheHits   int
	cacheMisses int
	searches    map[string]int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:    make(map[string]*tierStats),
		searches: make(map[string]int),
		otel:     otel,
	}
}

// RecordTierAttempt increments counters for a tier call and stores the last observed latency.
func (r *Recorder) RecordTierAttempt(tier string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	stats := r.ensureStats(tier)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	if r.otel != nil {
		r.otel.recordTierAttempt(tier, duration, err)
	}
}

// RecordCacheLookup tracks a cache hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	if hit {
		r.cacheHits++
	} else {
		r.cacheMisses++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheLookup(hit)
	}
}

// RecordSearch tracks a completed search by outcome (which source
// answered, or "failed") with its end-to-end latency.
func (r *Recorder) RecordSearch(outcome string, duration time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.searches[outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSearch(outcome, duration)
	}
}

// TierCalls returns the total attempts recorded for a tier.
func (r *Recorder) TierCalls(tier string) int {
	return r.TierSnapshot(tier).Calls
}

// TierErrors returns the total failed attempts recorded for a tier.
func (r *Recorder) TierErrors(tier string) int {
	return r.TierSnapshot(tier).Errors
}

// LastCallLatency returns the last recorded latency for a tier call.
func (r *Recorder) LastCallLatency(tier string) time.Duration {
	return r.TierSnapshot(tier).LastCallLatency
}

// CacheHits returns the number of cache hits recorded.
func (r *Recorder) CacheHits() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheHits
}

// CacheMisses returns the number of cache misses recorded.
func (r *Recorder) CacheMisses() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheMisses
}

// Searches returns the number of completed searches with the given outcome.
func (r *Recorder) Searches(outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.searches[outcome]
}

// TierSnapshot is a copy of the current stats for one tier.
type TierSnapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
}

func (r *Recorder) TierSnapshot(tier string) TierSnapshot {
	if r == nil {
		return TierSnapshot{}
	}
	stats := r.snapshot(tier)
	return TierSnapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

func (r *Recorder) ensureStats(tier string) *tierStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[tier]
	if !ok {
		stats = &tierStats{}
		r.stats[tier] = stats
	}
	return stats
}

func (r *Recorder) snapshot(tier string) tierStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[tier]; ok && stats != nil {
		return *stats
	}
	return tierStats{}
}

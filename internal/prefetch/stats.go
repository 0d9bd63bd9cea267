package prefetch

import (
	"sync"
	"time"
)

// Stats aggregates prefetch outcomes since scheduler start. Exposed by
// value; callers never see the live struct.
type Stats struct {
	TotalRequests         uint64  `json:"total_requests"`
	SuccessfulRequests    uint64  `json:"successful_requests"`
	FailedRequests        uint64  `json:"failed_requests"`
	BytesTransferred      uint64  `json:"bytes_transferred"`
	AverageResponseMillis uint64  `json:"average_response_millis"`
	CacheHitRate          float64 `json:"cache_hit_rate"`
}

// statsTracker accumulates Stats under a mutex. The response-time average
// is a running blend: the first sample sets it, each later sample moves it
// halfway toward the new value. Recent behavior dominates without keeping
// a window.
type statsTracker struct {
	mu sync.Mutex
	s  Stats
}

func (t *statsTracker) record(success bool, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.s.TotalRequests++
	if success {
		t.s.SuccessfulRequests++
	} else {
		t.s.FailedRequests++
	}

	sample := uint64(elapsed.Milliseconds())
	if t.s.TotalRequests == 1 {
		t.s.AverageResponseMillis = sample
	} else {
		t.s.AverageResponseMillis = (t.s.AverageResponseMillis + sample) / 2
	}

	t.s.CacheHitRate = float64(t.s.SuccessfulRequests) / float64(t.s.TotalRequests)
}

func (t *statsTracker) addBytes(n uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.s.BytesTransferred += n
}

func (t *statsTracker) snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s
}

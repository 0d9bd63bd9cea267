package resilience

import "time"

// maxBackoff caps the exponential backoff between retry attempts.
const maxBackoff = 30 * time.Second

// Policy describes how an operation may be retried. A Policy is constructed
// fresh for each logical operation, mutated only by Retry while that
// operation runs, and discarded afterwards.
type Policy struct {
	// CanRetry disables retries entirely when false.
	CanRetry bool
	// RetryCount is the number of failed attempts so far.
	RetryCount uint
	// MaxRetries bounds RetryCount; once reached, the last error is returned.
	MaxRetries uint
	// BaseBackoff is the delay before the first retry; it doubles per attempt.
	BaseBackoff time.Duration
}

// DefaultPolicy returns the standard policy: 3 retries starting at 1s backoff.
func DefaultPolicy() Policy {
	return Policy{CanRetry: true, MaxRetries: 3, BaseBackoff: time.Second}
}

// WithMaxRetries returns a copy of p with MaxRetries set.
func (p Policy) WithMaxRetries(n uint) Policy {
	p.MaxRetries = n
	return p
}

// WithBackoff returns a copy of p with BaseBackoff set.
func (p Policy) WithBackoff(d time.Duration) Policy {
	p.BaseBackoff = d
	return p
}

// NoRetry returns a copy of p that never retries.
func (p Policy) NoRetry() Policy {
	p.CanRetry = false
	p.MaxRetries = 0
	return p
}

// ShouldRetry reports whether another attempt is permitted.
func (p *Policy) ShouldRetry() bool {
	return p.CanRetry && p.RetryCount < p.MaxRetries
}

// IncrementRetry records one failed attempt.
func (p *Policy) IncrementRetry() {
	p.RetryCount++
}

// BackoffDuration returns the delay before the next attempt:
// BaseBackoff doubled per recorded failure, capped at 30s.
func (p *Policy) BackoffDuration() time.Duration {
	if p.BaseBackoff <= 0 {
		return 0
	}
	// Past 62 doublings the shift would overflow; it is over the cap anyway.
	if p.RetryCount > 62 {
		return maxBackoff
	}
	d := p.BaseBackoff << p.RetryCount
	if d > maxBackoff || d < p.BaseBackoff {
		return maxBackoff
	}
	return d
}

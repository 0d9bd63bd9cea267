package cache

import "time"

// Entry is one cached value with its expiry and access metadata.
// Values are held JSON-encoded so a decode error surfaces at one
// well-defined boundary instead of propagating half-typed data.
type Entry struct {
	// Data is the JSON-encoded value.
	Data []byte

	// CreatedAt is when the entry was stored.
	CreatedAt time.Time

	// TTL is how long past CreatedAt the entry stays valid.
	TTL time.Duration

	// AccessCount is the number of read hits; monotonically non-decreasing
	// while the entry exists.
	AccessCount uint64

	// LastAccessed is the time of the most recent hit, never before CreatedAt.
	LastAccessed time.Time

	// Tags enable group invalidation independent of the key.
	Tags []string
}

// Expired reports whether the entry is past its TTL at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.CreatedAt.Add(e.TTL))
}

// Age returns how long the entry has existed at the given instant.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// touch records a read hit.
func (e *Entry) touch(now time.Time) {
	e.AccessCount++
	e.LastAccessed = now
}

// hasAnyTag reports whether the entry carries at least one of the given tags.
func (e *Entry) hasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range e.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

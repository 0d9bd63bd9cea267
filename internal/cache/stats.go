package cache

import "time"

// Stats is a point-in-time aggregate over the store. ExpiredCount counts
// entries that are past their TTL but not yet swept or lazily removed.
type Stats struct {
	EntryCount       int           `json:"entry_count"`
	ExpiredCount     int           `json:"expired_count"`
	TotalAccessCount uint64        `json:"total_access_count"`
	AverageAge       time.Duration `json:"average_age"`
	HitRate          float64       `json:"hit_rate"`
}

// Stats computes aggregate statistics over the current entries. HitRate is
// the live hits/(hits+misses) ratio since construction, not a per-entry
// figure.
func (c *Cache) Stats() Stats {
	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{EntryCount: len(c.entries)}

	var totalAge time.Duration
	for _, e := range c.entries {
		s.TotalAccessCount += e.AccessCount
		if e.Expired(now) {
			s.ExpiredCount++
		}
		totalAge += e.Age(now)
	}
	if s.EntryCount > 0 {
		s.AverageAge = totalAge / time.Duration(s.EntryCount)
	}

	if lookups := c.hits + c.misses; lookups > 0 {
		s.HitRate = float64(c.hits) / float64(lookups)
	}
	return s
}

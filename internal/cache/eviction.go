package cache

import (
	"sort"
	"time"

	"github.com/echozyr2001/BrewDeck/internal/errdefs"
)

// Strategy selects which entries a capacity-triggered eviction pass removes.
type Strategy string

// Supported eviction strategies.
const (
	// StrategyLRU removes the entries with the oldest LastAccessed.
	StrategyLRU Strategy = "lru"
	// StrategyLFU removes the entries with the lowest AccessCount.
	StrategyLFU Strategy = "lfu"
	// StrategyFIFO removes the entries with the oldest CreatedAt.
	StrategyFIFO Strategy = "fifo"
	// StrategyTTL removes only entries that are already expired. It may
	// remove nothing, leaving the store temporarily over capacity.
	StrategyTTL Strategy = "ttl"
)

// ParseStrategy converts a configuration string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyLRU, StrategyLFU, StrategyFIFO, StrategyTTL:
		return Strategy(s), nil
	default:
		return "", errdefs.InvalidConfigf("unknown eviction strategy %q", s)
	}
}

// batchSize is how many entries one eviction pass removes under the sorting
// strategies: 10% of capacity, clamped so small caches still evict one entry
// and a Set can always proceed.
func (c *Cache) batchSize() int {
	n := c.cfg.MaxEntries / 10
	if n < 1 {
		n = 1
	}
	return n
}

// evictLocked removes one batch of entries according to the configured
// strategy. Callers must hold c.mu.
func (c *Cache) evictLocked(now time.Time) {
	var victims []string

	switch c.cfg.Strategy {
	case StrategyTTL:
		for key, e := range c.entries {
			if e.Expired(now) {
				victims = append(victims, key)
			}
		}
	case StrategyLFU:
		victims = c.lowestLocked(c.batchSize(), func(e *Entry) int64 {
			return int64(e.AccessCount) //nolint:gosec // Access counts stay far below int64 range.
		})
	case StrategyFIFO:
		victims = c.lowestLocked(c.batchSize(), func(e *Entry) int64 {
			return e.CreatedAt.UnixNano()
		})
	case StrategyLRU:
		fallthrough
	default:
		victims = c.lowestLocked(c.batchSize(), func(e *Entry) int64 {
			return e.LastAccessed.UnixNano()
		})
	}

	for _, key := range victims {
		delete(c.entries, key)
	}
	if len(victims) > 0 {
		c.log.Debug().
			Int("evicted", len(victims)).
			Str("strategy", string(c.cfg.Strategy)).
			Msg("evicted cache entries to make room")
	}
}

// lowestLocked returns the keys of the count entries with the smallest
// metric. Callers must hold c.mu.
func (c *Cache) lowestLocked(count int, metric func(*Entry) int64) []string {
	type ranked struct {
		key   string
		score int64
	}

	all := make([]ranked, 0, len(c.entries))
	for key, e := range c.entries {
		all = append(all, ranked{key: key, score: metric(e)})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].score < all[j].score })

	if count > len(all) {
		count = len(all)
	}
	keys := make([]string, 0, count)
	for _, r := range all[:count] {
		keys = append(keys, r.key)
	}
	return keys
}

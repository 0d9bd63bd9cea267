package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/echozyr2001/BrewDeck/internal/errdefs"
	"github.com/echozyr2001/BrewDeck/internal/tasks"
)

// Default configuration values.
const (
	DefaultTTL             = 5 * time.Minute
	DefaultMaxEntries      = 1000
	DefaultCleanupInterval = time.Minute
)

// Config controls cache construction.
type Config struct {
	// DefaultTTL applies to entries stored without an explicit TTL.
	DefaultTTL time.Duration

	// MaxEntries triggers an eviction pass when a Set finds the store at or
	// over this size.
	MaxEntries int

	// CleanupInterval is the period of the background expiry sweep.
	CleanupInterval time.Duration

	// Strategy selects which entries an eviction pass removes.
	Strategy Strategy

	// Logger receives decode, eviction, and sweep diagnostics. The zero
	// value logs nowhere.
	Logger zerolog.Logger
}

// Cache is an in-memory TTL store with tag invalidation and capacity
// eviction. It is safe for concurrent use; the store itself is the
// synchronization boundary, and critical sections never do I/O, so a read
// of one key cannot block a write of another indefinitely.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	cfg     Config
	log     zerolog.Logger

	hits   uint64
	misses uint64

	refreshWG sync.WaitGroup
}

// New creates a Cache, filling zero config fields with the package defaults.
func New(cfg Config) *Cache {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyLRU
	}

	return &Cache{
		entries: make(map[string]*Entry),
		cfg:     cfg,
		log:     cfg.Logger.With().Str("component", "cache").Logger(),
	}
}

// SetOption adjusts a single Set call.
type SetOption func(*setOptions)

type setOptions struct {
	ttl  time.Duration
	tags []string
}

// WithTTL overrides the default TTL for one entry.
func WithTTL(d time.Duration) SetOption {
	return func(o *setOptions) { o.ttl = d }
}

// WithTags attaches tags for group invalidation.
func WithTags(tags ...string) SetOption {
	return func(o *setOptions) { o.tags = tags }
}

// Set encodes value and stores it under key, overwriting any prior entry.
// When the store is at or over capacity it runs one eviction pass first.
// Set fails only when the value cannot be encoded; capacity never fails it.
func Set[T any](c *Cache, key string, value T, opts ...SetOption) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errdefs.Serializationf("encoding cache entry %q: %v", key, err)
	}

	o := setOptions{ttl: c.cfg.DefaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ttl <= 0 {
		o.ttl = c.cfg.DefaultTTL
	}

	c.store(key, data, o.ttl, o.tags)
	return nil
}

// Get returns the decoded value for key if present and unexpired, recording
// the hit. An expired entry is removed on the spot and reported absent. An
// entry that no longer decodes is dropped and reported absent.
func Get[T any](c *Cache, key string) (T, bool) {
	var zero T

	data, ok := c.lookup(key)
	if !ok {
		return zero, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.log.Warn().Str("key", key).Err(err).Msg("dropping cache entry that failed to decode")
		c.Invalidate(key)
		return zero, false
	}
	return v, true
}

// lookup fetches the raw entry data, applying lazy expiry and touching
// access metadata.
func (c *Cache) lookup(key string) ([]byte, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if e.Expired(now) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}

	e.touch(now)
	c.hits++
	return e.Data, true
}

func (c *Cache) store(key string, data []byte, ttl time.Duration, tags []string) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.cfg.MaxEntries {
		c.evictLocked(now)
	}

	c.entries[key] = &Entry{
		Data:         data,
		CreatedAt:    now,
		TTL:          ttl,
		LastAccessed: now,
		Tags:         tags,
	}
}

// Invalidate removes one entry and reports whether it existed.
func (c *Cache) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// InvalidatePattern removes every entry whose key contains pattern as a
// substring or matches it as a single-wildcard glob ("prefix*suffix").
// It returns the number of entries removed.
func (c *Cache) InvalidatePattern(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if matchPattern(key, pattern) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// InvalidateByTags removes every entry whose tag set intersects tags and
// returns the number removed.
func (c *Cache) InvalidateByTags(tags ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if e.hasAnyTag(tags) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
}

// Len returns the number of entries, expired ones included until swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// SweepExpired removes every expired entry and returns how many went.
func (c *Cache) SweepExpired() int {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if e.Expired(now) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.log.Debug().Int("removed", removed).Msg("sweep removed expired cache entries")
	}
	return removed
}

// StartSweep registers the periodic expiry sweep with the task registry.
func (c *Cache) StartSweep(reg *tasks.Registry) {
	reg.Every("cache.sweep", c.cfg.CleanupInterval, func(context.Context) error {
		c.SweepExpired()
		return nil
	})
}

// EntryAge reports the age and TTL of the entry under key without counting
// the lookup as a hit. ok is false when the key is absent or expired. The
// stale-data refresher uses this to decide whether a listing is worth
// re-fetching.
func (c *Cache) EntryAge(key string) (age, ttl time.Duration, ok bool) {
	now := time.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, present := c.entries[key]
	if !present || e.Expired(now) {
		return 0, 0, false
	}
	return e.Age(now), e.TTL, true
}

// EntrySize reports the encoded size in bytes of the entry under key,
// without counting the lookup as a hit. ok is false when the key is
// absent or expired.
func (c *Cache) EntrySize(key string) (n int, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, present := c.entries[key]
	if !present || e.Expired(time.Now()) {
		return 0, false
	}
	return len(e.Data), true
}

// Close waits for in-flight background refreshes to finish.
func (c *Cache) Close() {
	c.refreshWG.Wait()
}

// matchPattern implements the key-matching rules for InvalidatePattern:
// plain substring containment, or a glob with a single '*' splitting the
// pattern into a required prefix and suffix.
func matchPattern(key, pattern string) bool {
	if strings.Contains(key, pattern) {
		return true
	}
	i := strings.IndexByte(pattern, '*')
	if i < 0 {
		return false
	}
	prefix, suffix := pattern[:i], pattern[i+1:]
	return len(key) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(key, prefix) &&
		strings.HasSuffix(key, suffix)
}

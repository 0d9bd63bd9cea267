package prefetch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/echozyr2001/BrewDeck/internal/cache"
	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/deck"
	"github.com/echozyr2001/BrewDeck/internal/logging"
	"github.com/echozyr2001/BrewDeck/internal/tasks"
)

// Facade is the slice of the data access layer the scheduler drives.
// *deck.Service implements it.
type Facade interface {
	Packages(ctx context.Context, kind catalog.Kind) ([]deck.Package, error)
	PackageDetails(ctx context.Context, name string, kind catalog.Kind) (deck.Package, error)
	Search(ctx context.Context, query string, kind catalog.Kind) (deck.SearchResult, error)
	Cache() *cache.Cache
}

// Activity pacing and throttling.
const (
	popularThrottle  = 10 * time.Minute
	popularBatchSize = 10
	relatedDepsMax   = 3
	predictiveMax    = 5
	recentQueriesMax = 5
)

// Scheduler warms the cache in the background: popular packages, related
// dependencies, stale listings, and predicted searches. All of its work
// goes through the same facade interactive callers use, so every prefetch
// lands in the shared cache.
type Scheduler struct {
	deck Facade
	log  zerolog.Logger

	mu  sync.RWMutex // guards cfg and sem together
	cfg Config
	sem chan struct{}

	netMu sync.RWMutex
	net   *NetworkConditions

	stats statsTracker

	runMu   sync.Mutex // guards lastRun and popular memo
	lastRun map[string]time.Time
	popular map[catalog.Kind]popularMemo

	queryMu sync.Mutex
	queries []string

	// Pauses between items in a batch, reduced in tests.
	popularPause    time.Duration
	relatedPause    time.Duration
	predictivePause time.Duration
}

type popularMemo struct {
	names []string
	at    time.Time
}

// NewScheduler wires a scheduler over the facade with the given config.
func NewScheduler(facade Facade, cfg Config, logger zerolog.Logger) *Scheduler {
	if cfg.MaxConcurrentRequests < 1 {
		cfg.MaxConcurrentRequests = 1
	}
	return &Scheduler{
		deck:            facade,
		log:             logging.ComponentLogger(logger, "prefetch"),
		cfg:             cfg,
		sem:             make(chan struct{}, cfg.MaxConcurrentRequests),
		lastRun:         map[string]time.Time{},
		popular:         map[catalog.Kind]popularMemo{},
		popularPause:    100 * time.Millisecond,
		relatedPause:    200 * time.Millisecond,
		predictivePause: 500 * time.Millisecond,
	}
}

// Start registers the periodic activities. They run until the registry
// shuts down.
func (s *Scheduler) Start(reg *tasks.Registry) {
	s.mu.RLock()
	interval := s.cfg.Interval
	s.mu.RUnlock()
	if interval <= 0 {
		interval = DefaultConfig().Interval
	}

	reg.Every("prefetch.refresh_stale", interval, func(ctx context.Context) error {
		s.RefreshStale(ctx)
		return nil
	})
	reg.Every("prefetch.popular", popularThrottle, func(ctx context.Context) error {
		for _, kind := range catalog.Kinds() {
			s.PrefetchPopular(ctx, kind)
		}
		return nil
	})
	reg.Every("prefetch.predictive", interval, func(ctx context.Context) error {
		if queries := s.RecentQueries(); len(queries) > 0 {
			s.PredictivePrefetch(ctx, queries)
		}
		return nil
	})
}

// UpdateConfig replaces the configuration. The permit pool is resized by
// swapping the channel: activities already holding a permit release into
// the channel they acquired from, so in-flight work is unaffected.
func (s *Scheduler) UpdateConfig(cfg Config) {
	if cfg.MaxConcurrentRequests < 1 {
		cfg.MaxConcurrentRequests = 1
	}

	s.mu.Lock()
	resized := cfg.MaxConcurrentRequests != s.cfg.MaxConcurrentRequests
	s.cfg = cfg
	if resized {
		s.sem = make(chan struct{}, cfg.MaxConcurrentRequests)
	}
	s.mu.Unlock()

	s.log.Info().
		Bool("enabled", cfg.Enabled).
		Int("max_concurrent", cfg.MaxConcurrentRequests).
		Msg("prefetch config updated")
}

// Config returns the current configuration.
func (s *Scheduler) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// UpdateNetworkConditions replaces the network snapshot.
func (s *Scheduler) UpdateNetworkConditions(nc NetworkConditions) {
	s.netMu.Lock()
	s.net = &nc
	s.netMu.Unlock()

	s.log.Debug().
		Str("connection", nc.ConnectionType).
		Str("effective", nc.EffectiveType).
		Bool("save_data", nc.SaveData).
		Msg("network conditions updated")
}

// Stats returns a snapshot of the counters.
func (s *Scheduler) Stats() Stats {
	return s.stats.snapshot()
}

// RecordQuery remembers a search query for predictive prefetching. Only
// the most recent few are kept.
func (s *Scheduler) RecordQuery(query string) {
	if query == "" {
		return
	}

	s.queryMu.Lock()
	defer s.queryMu.Unlock()

	if n := len(s.queries); n > 0 && s.queries[n-1] == query {
		return
	}
	s.queries = append(s.queries, query)
	if len(s.queries) > recentQueriesMax {
		s.queries = s.queries[len(s.queries)-recentQueriesMax:]
	}
}

// RecentQueries returns the remembered queries, oldest first.
func (s *Scheduler) RecentQueries() []string {
	s.queryMu.Lock()
	defer s.queryMu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

// acquire takes a permit, waiting until one frees or ctx ends. The
// returned release puts the permit back into the pool it came from even if
// the pool has since been swapped.
func (s *Scheduler) acquire(ctx context.Context) (release func(), ok bool) {
	s.mu.RLock()
	sem := s.sem
	s.mu.RUnlock()

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, true
	case <-ctx.Done():
		return nil, false
	}
}

// throttled reports whether key ran within window. It does not record a
// run; markRun does, once the activity actually proceeds.
func (s *Scheduler) throttled(key string, window time.Duration) bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	last, ok := s.lastRun[key]
	return ok && time.Since(last) < window
}

func (s *Scheduler) markRun(key string) {
	s.runMu.Lock()
	s.lastRun[key] = time.Now()
	s.runMu.Unlock()
}

// pause sleeps between batch items, bailing out when ctx ends.
func (s *Scheduler) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

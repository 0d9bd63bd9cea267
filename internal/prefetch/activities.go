package prefetch

import (
	"context"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/deck"
)

// PrefetchPopular warms the detail cache for the most popular packages of
// one kind. Throttled to one run per kind per throttle window; per-item
// failures are counted and logged, never fatal.
func (s *Scheduler) PrefetchPopular(ctx context.Context, kind catalog.Kind) {
	throttleKey := "popular_" + string(kind)
	if s.throttled(throttleKey, popularThrottle) {
		s.log.Debug().Str("kind", string(kind)).Msg("popular prefetch throttled")
		return
	}
	if !s.AllowedNow(PriorityMedium) {
		return
	}

	release, ok := s.acquire(ctx)
	if !ok {
		return
	}
	defer release()
	s.markRun(throttleKey)

	log := s.log.With().
		Str("request_id", ulid.Make().String()).
		Str("activity", "popular").
		Str("kind", string(kind)).
		Logger()
	start := time.Now()

	names, err := s.popularNames(ctx, kind)
	if err != nil {
		s.stats.record(false, time.Since(start))
		log.Warn().Err(err).Msg("popular listing unavailable")
		return
	}
	if len(names) > popularBatchSize {
		names = names[:popularBatchSize]
	}

	for i, name := range names {
		if i > 0 && !s.pause(ctx, s.popularPause) {
			return
		}

		itemStart := time.Now()
		_, err := s.deck.PackageDetails(ctx, name, kind)
		s.stats.record(err == nil, time.Since(itemStart))
		if err != nil {
			log.Warn().Err(err).Str("package", name).Msg("popular prefetch item failed")
			continue
		}
		s.recordFetched(deck.DetailKey(name, kind))
	}

	log.Info().Int("count", len(names)).Dur("duration", time.Since(start)).
		Msg("popular prefetch complete")
}

// recordFetched credits the encoded size of a freshly cached view toward
// the bytes-transferred counter.
func (s *Scheduler) recordFetched(key string) {
	if n, ok := s.deck.Cache().EntrySize(key); ok {
		s.stats.addBytes(uint64(n))
	}
}

// popularNames returns the names of packages above the popularity
// threshold, sorted by name. The list is memoized per kind for the
// throttle window.
func (s *Scheduler) popularNames(ctx context.Context, kind catalog.Kind) ([]string, error) {
	s.runMu.Lock()
	memo := s.popular[kind]
	s.runMu.Unlock()
	if len(memo.names) > 0 && time.Since(memo.at) < popularThrottle {
		return memo.names, nil
	}

	packages, err := s.deck.Packages(ctx, kind)
	if err != nil {
		return nil, err
	}

	threshold := s.Config().PopularityThreshold
	var names []string
	for _, pkg := range packages {
		if pkg.Analytics.Downloads365d > threshold {
			names = append(names, pkg.Name)
		}
	}
	sort.Strings(names)

	s.runMu.Lock()
	s.popular[kind] = popularMemo{names: names, at: time.Now()}
	s.runMu.Unlock()
	return names, nil
}

// PrefetchRelated warms the cache with a package's details and those of
// its first few dependencies. Intended to run after a user views or
// installs the package.
func (s *Scheduler) PrefetchRelated(ctx context.Context, name string, kind catalog.Kind) {
	if !s.AllowedNow(PriorityLow) {
		return
	}

	release, ok := s.acquire(ctx)
	if !ok {
		return
	}
	defer release()

	log := s.log.With().
		Str("request_id", ulid.Make().String()).
		Str("activity", "related").
		Str("package", name).
		Logger()

	start := time.Now()
	pkg, err := s.deck.PackageDetails(ctx, name, kind)
	s.stats.record(err == nil, time.Since(start))
	if err != nil {
		log.Warn().Err(err).Msg("related prefetch anchor failed")
		return
	}
	s.recordFetched(deck.DetailKey(name, kind))

	deps := pkg.Dependencies
	if len(deps) > relatedDepsMax {
		deps = deps[:relatedDepsMax]
	}
	for _, dep := range deps {
		if !s.pause(ctx, s.relatedPause) {
			return
		}

		depStart := time.Now()
		_, err := s.deck.PackageDetails(ctx, dep, kind)
		s.stats.record(err == nil, time.Since(depStart))
		if err != nil {
			log.Warn().Err(err).Str("dependency", dep).Msg("related prefetch item failed")
			continue
		}
		s.recordFetched(deck.DetailKey(dep, kind))
	}

	log.Debug().Int("dependencies", len(deps)).Msg("related prefetch complete")
}

// RefreshStale re-fetches any cached listing that has aged past half its
// TTL, keeping listings warm so interactive reads rarely pay a miss.
func (s *Scheduler) RefreshStale(ctx context.Context) {
	if !s.Config().BackgroundRefreshEnabled {
		return
	}
	if !s.AllowedNow(PriorityLow) {
		return
	}

	for _, kind := range catalog.Kinds() {
		key := deck.ListingKey(kind)
		age, ttl, ok := s.deck.Cache().EntryAge(key)
		if !ok || age < ttl/2 {
			continue
		}

		release, acquired := s.acquire(ctx)
		if !acquired {
			return
		}

		start := time.Now()
		s.deck.Cache().Invalidate(key)
		_, err := s.deck.Packages(ctx, kind)
		s.stats.record(err == nil, time.Since(start))
		release()

		if err != nil {
			s.log.Warn().Err(err).Str("kind", string(kind)).Msg("stale listing refresh failed")
			continue
		}
		s.recordFetched(key)
		s.log.Debug().Str("kind", string(kind)).Dur("age", age).
			Msg("refreshed stale listing")
	}
}

// PredictivePrefetch replays recent search queries against both kinds and
// warms details for the top hits, anticipating what the user will open
// next.
func (s *Scheduler) PredictivePrefetch(ctx context.Context, queries []string) {
	if !s.Config().PredictiveEnabled {
		return
	}
	if !s.AllowedNow(PriorityLow) {
		return
	}

	release, ok := s.acquire(ctx)
	if !ok {
		return
	}
	defer release()

	if len(queries) > predictiveMax {
		queries = queries[len(queries)-predictiveMax:]
	}

	log := s.log.With().
		Str("request_id", ulid.Make().String()).
		Str("activity", "predictive").
		Logger()

	for _, query := range queries {
		for _, kind := range catalog.Kinds() {
			searchStart := time.Now()
			result, err := s.deck.Search(ctx, query, kind)
			s.stats.record(err == nil, time.Since(searchStart))
			if err != nil {
				log.Warn().Err(err).Str("query", query).Str("kind", string(kind)).
					Msg("predictive search failed")
			} else {
				s.recordFetched(deck.SearchKey(query, kind))
				top := result.Packages
				if len(top) > 2 {
					top = top[:2]
				}
				for _, pkg := range top {
					detailStart := time.Now()
					_, err := s.deck.PackageDetails(ctx, pkg.Name, kind)
					s.stats.record(err == nil, time.Since(detailStart))
					if err != nil {
						log.Warn().Err(err).Str("package", pkg.Name).
							Msg("predictive detail prefetch failed")
						continue
					}
					s.recordFetched(deck.DetailKey(pkg.Name, kind))
				}
			}

			if !s.pause(ctx, s.predictivePause) {
				return
			}
		}
	}

	log.Debug().Int("queries", len(queries)).Msg("predictive prefetch complete")
}

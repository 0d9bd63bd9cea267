package deck

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/echozyr2001/BrewDeck/internal/cache"
	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/logging"
	"github.com/echozyr2001/BrewDeck/internal/resilience"
)

// Brew is the local command executor the facade consumes. *brew.Client
// implements it; tests substitute fakes.
type Brew interface {
	ListInstalled(ctx context.Context, kind catalog.Kind) ([]string, error)
	ListOutdated(ctx context.Context, kind catalog.Kind) ([]string, error)
	Install(ctx context.Context, name string, kind catalog.Kind) (string, error)
	Uninstall(ctx context.Context, name string, kind catalog.Kind) (string, error)
	Update(ctx context.Context, name string, kind catalog.Kind) (string, error)
	UpdateAll(ctx context.Context, kind *catalog.Kind) (string, error)
	Info(ctx context.Context, name string, kind catalog.Kind) (string, error)
	Search(ctx context.Context, query string, kind *catalog.Kind) ([]string, error)
}

// Catalog is the remote API client the facade consumes. *catalog.Client
// implements it.
type Catalog interface {
	FetchAll(ctx context.Context, kind catalog.Kind) ([]catalog.Record, error)
	FetchOne(ctx context.Context, name string, kind catalog.Kind) (catalog.Record, error)
	FetchAnalytics(ctx context.Context, kind catalog.Kind) (map[string]uint64, error)
}

// Service is the data access facade: cache-first reads over a
// remote-primary/local-fallback fetch pipeline, and local-only mutations
// with cache invalidation. Construct it once in main and hand it to every
// consumer; there is no package-level instance.
type Service struct {
	cache   *cache.Cache
	brew    Brew
	catalog Catalog
	log     zerolog.Logger

	// group deduplicates concurrent misses of the same key so a thundering
	// herd performs one upstream fetch.
	group singleflight.Group

	// retryPolicy is the template applied inside each fetch branch.
	retryPolicy resilience.Policy
}

// NewService wires the facade from its explicit dependencies.
func NewService(c *cache.Cache, b Brew, cat Catalog, logger zerolog.Logger) *Service {
	return &Service{
		cache:       c,
		brew:        b,
		catalog:     cat,
		log:         logging.ComponentLogger(logger, "deck"),
		retryPolicy: resilience.Policy{CanRetry: true, MaxRetries: 2, BaseBackoff: time.Second},
	}
}

// Cache exposes the underlying store for invalidation-aware callers such as
// the prefetch scheduler and the CLI stats command.
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// SetRetryPolicy replaces the retry template applied inside fetch branches.
// Tests shrink the backoff; production keeps the default.
func (s *Service) SetRetryPolicy(p resilience.Policy) {
	s.retryPolicy = p
}

// fetchDedup funnels concurrent misses of one cache key through a single
// in-flight fetch. Later arrivals share the first caller's result.
func fetchDedup[T any](ctx context.Context, s *Service, key string, fetch func(context.Context) (T, error)) (T, error) {
	v, err, _ := s.group.Do(key, func() (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

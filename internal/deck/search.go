package deck

import (
	"context"
	"strings"
	"time"

	"github.com/echozyr2001/BrewDeck/internal/cache"
	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/resilience"
)

// Result caps keep a search answerable in bounded time: the catalog branch
// filters in memory, the brew branch resolves each hit with a subprocess.
const (
	maxCatalogResults = 50
	maxBrewResults    = 20
)

// Search answers one query over one kind. Cache-first under a
// query-specific key with a short TTL; on miss the catalog listing is
// filtered as the primary branch with brew search as fallback.
func (s *Service) Search(ctx context.Context, query string, kind catalog.Kind) (SearchResult, error) {
	start := time.Now()
	key := SearchKey(query, kind)

	if cached, ok := cache.Get[SearchResult](s.cache, key); ok {
		s.log.Debug().Ctx(ctx).Str("query", query).Msg("search served from cache")
		return cached, nil
	}

	return fetchDedup(ctx, s, key, func(ctx context.Context) (SearchResult, error) {
		packages, err := resilience.WithFallback(ctx,
			func(ctx context.Context) ([]Package, error) {
				return s.searchListing(ctx, query, kind)
			},
			func(ctx context.Context) ([]Package, error) {
				return resilience.Retry(ctx, s.retryPolicy, func(ctx context.Context) ([]Package, error) {
					return s.searchBrew(ctx, query, kind)
				})
			},
		)
		if err != nil {
			return SearchResult{}, err
		}

		result := SearchResult{
			Packages:   packages,
			TotalCount: len(packages),
			Elapsed:    time.Since(start),
		}

		if err := cache.Set(s.cache, key, result,
			cache.WithTTL(searchTTL),
			cache.WithTags(TagSearch, KindTag(kind)),
		); err != nil {
			return SearchResult{}, err
		}
		return result, nil
	})
}

// searchListing filters the (cached or freshly fetched) full listing by
// case-insensitive name/description substring match.
func (s *Service) searchListing(ctx context.Context, query string, kind catalog.Kind) ([]Package, error) {
	packages, err := s.Packages(ctx, kind)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matches := make([]Package, 0, maxCatalogResults)
	for _, pkg := range packages {
		if strings.Contains(strings.ToLower(pkg.Name), q) ||
			strings.Contains(strings.ToLower(pkg.Description), q) {
			matches = append(matches, pkg)
			if len(matches) == maxCatalogResults {
				break
			}
		}
	}
	return matches, nil
}

// searchBrew runs brew search and resolves each hit to details. Hits whose
// detail lookup fails are skipped, not fatal.
func (s *Service) searchBrew(ctx context.Context, query string, kind catalog.Kind) ([]Package, error) {
	names, err := s.brew.Search(ctx, query, &kind)
	if err != nil {
		return nil, err
	}
	if len(names) > maxBrewResults {
		names = names[:maxBrewResults]
	}

	packages := make([]Package, 0, len(names))
	for _, name := range names {
		pkg, detailErr := s.detailFromBrew(ctx, name, kind)
		if detailErr != nil {
			s.log.Debug().Ctx(ctx).Err(detailErr).Str("package", name).
				Msg("skipping search hit without resolvable details")
			continue
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

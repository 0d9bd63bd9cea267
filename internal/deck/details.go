package deck

import (
	"context"

	"github.com/echozyr2001/BrewDeck/internal/brew"
	"github.com/echozyr2001/BrewDeck/internal/cache"
	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/resilience"
)

// PackageDetails returns the detail view of one package. Cache-first with a
// long TTL; the entry carries the package's own name as a tag so one tag
// invalidation drops exactly this view.
func (s *Service) PackageDetails(ctx context.Context, name string, kind catalog.Kind) (Package, error) {
	key := DetailKey(name, kind)
	if cached, ok := cache.Get[Package](s.cache, key); ok {
		return cached, nil
	}

	return fetchDedup(ctx, s, key, func(ctx context.Context) (Package, error) {
		pkg, err := resilience.WithFallback(ctx,
			func(ctx context.Context) (Package, error) {
				return resilience.Retry(ctx, s.retryPolicy, func(ctx context.Context) (Package, error) {
					return s.detailFromCatalog(ctx, name, kind)
				})
			},
			func(ctx context.Context) (Package, error) {
				return resilience.Retry(ctx, s.retryPolicy, func(ctx context.Context) (Package, error) {
					return s.detailFromBrew(ctx, name, kind)
				})
			},
		)
		if err != nil {
			return Package{}, err
		}

		if err := cache.Set(s.cache, key, pkg,
			cache.WithTTL(detailTTL),
			cache.WithTags(TagDetails, KindTag(kind), name),
		); err != nil {
			return Package{}, err
		}
		return pkg, nil
	})
}

// detailFromCatalog fetches one record and merges local install state.
func (s *Service) detailFromCatalog(ctx context.Context, name string, kind catalog.Kind) (Package, error) {
	rec, err := s.catalog.FetchOne(ctx, name, kind)
	if err != nil {
		return Package{}, err
	}

	installed, outdated := s.localState(ctx, kind)
	return s.fromRecord(rec, kind, nil, installed, outdated), nil
}

// detailFromBrew parses brew info text output into a package.
func (s *Service) detailFromBrew(ctx context.Context, name string, kind catalog.Kind) (Package, error) {
	raw, err := s.brew.Info(ctx, name, kind)
	if err != nil {
		return Package{}, err
	}

	info := brew.ParseInfo(name, raw)
	installed, outdated := s.localState(ctx, kind)

	// The outdated listing may be unavailable on the degraded path; the
	// parsed installed version against the stable one answers the same
	// question.
	isOutdated := installed[name] && outdated[name]
	if installed[name] && !isOutdated && info.InstalledVersion != "" && info.Version != "unknown" {
		isOutdated = VersionNewer(info.InstalledVersion, info.Version)
	}

	return Package{
		Name:        info.Name,
		Version:     info.Version,
		Description: info.Description,
		Homepage:    info.Homepage,
		Caveats:     info.Caveats,
		Installed:   installed[name],
		Outdated:    isOutdated,
		Kind:        kind,
	}, nil
}

package deck

import (
	"context"
	"sort"

	"github.com/echozyr2001/BrewDeck/internal/cache"
	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/resilience"
)

// Packages returns the full listing for one kind: catalog metadata merged
// with local install state. Cache-first; on miss the remote catalog is the
// primary source with the local tool as fallback, retries inside each
// branch.
func (s *Service) Packages(ctx context.Context, kind catalog.Kind) ([]Package, error) {
	key := ListingKey(kind)
	if cached, ok := cache.Get[[]Package](s.cache, key); ok {
		s.log.Debug().Ctx(ctx).Str("kind", string(kind)).Int("count", len(cached)).
			Msg("listing served from cache")
		return cached, nil
	}

	return fetchDedup(ctx, s, key, func(ctx context.Context) ([]Package, error) {
		packages, err := resilience.WithFallback(ctx,
			func(ctx context.Context) ([]Package, error) {
				return resilience.Retry(ctx, s.retryPolicy, func(ctx context.Context) ([]Package, error) {
					return s.listingFromCatalog(ctx, kind)
				})
			},
			func(ctx context.Context) ([]Package, error) {
				return resilience.Retry(ctx, s.retryPolicy, func(ctx context.Context) ([]Package, error) {
					return s.listingFromBrew(ctx, kind)
				})
			},
		)
		if err != nil {
			return nil, err
		}

		if err := cache.Set(s.cache, key, packages,
			cache.WithTTL(listingTTL),
			cache.WithTags(TagPackages, KindTag(kind)),
		); err != nil {
			return nil, err
		}

		s.log.Info().Ctx(ctx).Str("kind", string(kind)).Int("count", len(packages)).
			Msg("fetched package listing")
		return packages, nil
	})
}

// listingFromCatalog builds the listing from the remote catalog, decorated
// with analytics and local install state. Install state and analytics are
// best-effort: a listing without them is still a listing.
func (s *Service) listingFromCatalog(ctx context.Context, kind catalog.Kind) ([]Package, error) {
	records, err := s.catalog.FetchAll(ctx, kind)
	if err != nil {
		return nil, err
	}

	counts, err := s.catalog.FetchAnalytics(ctx, kind)
	if err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Str("kind", string(kind)).
			Msg("analytics unavailable, listing proceeds without install counts")
		counts = nil
	}

	installed, outdated := s.localState(ctx, kind)

	packages := make([]Package, 0, len(records))
	for _, rec := range records {
		packages = append(packages, s.fromRecord(rec, kind, counts, installed, outdated))
	}
	return packages, nil
}

// listingFromBrew is the degraded path: only installed packages are
// listable locally, resolved to details one by one. A package whose detail
// fetch fails still appears, reduced to its name and install state.
func (s *Service) listingFromBrew(ctx context.Context, kind catalog.Kind) ([]Package, error) {
	installed, err := s.brew.ListInstalled(ctx, kind)
	if err != nil {
		return nil, err
	}

	outdatedNames, err := s.brew.ListOutdated(ctx, kind)
	if err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Msg("outdated listing unavailable")
		outdatedNames = nil
	}
	outdated := toSet(outdatedNames)

	packages := make([]Package, 0, len(installed))
	for _, name := range installed {
		pkg, detailErr := s.detailFromBrew(ctx, name, kind)
		if detailErr != nil {
			s.log.Warn().Ctx(ctx).Err(detailErr).Str("package", name).
				Msg("falling back to minimal package entry")
			pkg = Package{
				Name:        name,
				Version:     "unknown",
				Description: string(kind) + " package",
				Kind:        kind,
			}
		}
		pkg.Installed = true
		pkg.Outdated = outdated[name]
		packages = append(packages, pkg)
	}
	return packages, nil
}

// fromRecord merges one catalog record with analytics and install state.
func (s *Service) fromRecord(rec catalog.Record, kind catalog.Kind, counts map[string]uint64, installed, outdated map[string]bool) Package {
	name := rec.ID(kind)

	var analytics Analytics
	if n, ok := counts[name]; ok {
		analytics = Analytics{Downloads365d: n, Popularity: float64(n) / 1000}
	}

	caveats := ""
	if rec.Caveats != nil {
		caveats = *rec.Caveats
	}

	desc := rec.Desc
	if desc == "" {
		desc = "No description available"
	}

	return Package{
		Name:         name,
		Version:      rec.StableVersion(kind),
		Description:  desc,
		Homepage:     rec.Homepage,
		Installed:    installed[name],
		Outdated:     installed[name] && outdated[name],
		Dependencies: rec.Dependencies,
		Conflicts:    rec.ConflictsWith,
		Caveats:      caveats,
		Analytics:    analytics,
		Warnings:     buildWarnings(rec),
		Kind:         kind,
	}
}

// localState returns installed and outdated name sets, best-effort: when
// brew is unavailable the catalog listing simply shows nothing installed.
func (s *Service) localState(ctx context.Context, kind catalog.Kind) (installed, outdated map[string]bool) {
	installedNames, err := s.brew.ListInstalled(ctx, kind)
	if err != nil {
		s.log.Debug().Ctx(ctx).Err(err).Msg("local install state unavailable")
		return map[string]bool{}, map[string]bool{}
	}
	outdatedNames, err := s.brew.ListOutdated(ctx, kind)
	if err != nil {
		outdatedNames = nil
	}
	return toSet(installedNames), toSet(outdatedNames)
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// SortByDownloads orders packages by trailing-year install count, most
// popular first, ties broken by name.
func SortByDownloads(packages []Package) {
	sort.Slice(packages, func(i, j int) bool {
		if packages[i].Analytics.Downloads365d != packages[j].Analytics.Downloads365d {
			return packages[i].Analytics.Downloads365d > packages[j].Analytics.Downloads365d
		}
		return packages[i].Name < packages[j].Name
	})
}

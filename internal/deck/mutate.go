package deck

import (
	"context"
	"time"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
	"github.com/echozyr2001/BrewDeck/internal/errdefs"
)

// Install installs one package through the local tool. Mutations never
// touch the remote catalog: they change machine state, not catalog state.
func (s *Service) Install(ctx context.Context, name string, kind catalog.Kind) OpResult {
	return s.mutate(ctx, name, kind, "install", func(ctx context.Context) (string, error) {
		return s.brew.Install(ctx, name, kind)
	})
}

// Uninstall removes one package through the local tool.
func (s *Service) Uninstall(ctx context.Context, name string, kind catalog.Kind) OpResult {
	return s.mutate(ctx, name, kind, "uninstall", func(ctx context.Context) (string, error) {
		return s.brew.Uninstall(ctx, name, kind)
	})
}

// Update upgrades one package through the local tool.
func (s *Service) Update(ctx context.Context, name string, kind catalog.Kind) OpResult {
	return s.mutate(ctx, name, kind, "update", func(ctx context.Context) (string, error) {
		return s.brew.Update(ctx, name, kind)
	})
}

// UpdateAll upgrades every outdated package, optionally restricted to one
// kind. All cached views are dropped afterwards since any of them may now
// be stale.
func (s *Service) UpdateAll(ctx context.Context, kind *catalog.Kind) OpResult {
	start := time.Now()

	msg, err := s.brew.UpdateAll(ctx, kind)
	if err != nil {
		return OpResult{Success: false, Message: errdefs.Message(err), Duration: time.Since(start)}
	}

	s.cache.Clear()
	s.log.Info().Ctx(ctx).Msg("updated all packages, cache cleared")
	return OpResult{Success: true, Message: msg, Duration: time.Since(start)}
}

// mutate wraps one mutating brew call with timing, uniform result shaping,
// and cache invalidation on success.
func (s *Service) mutate(ctx context.Context, name string, kind catalog.Kind, op string, fn func(context.Context) (string, error)) OpResult {
	start := time.Now()

	s.log.Info().Ctx(ctx).
		Str("operation", op).
		Str("package", name).
		Str("kind", string(kind)).
		Msg("running package mutation")

	msg, err := fn(ctx)
	duration := time.Since(start)

	if err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Str("operation", op).Str("package", name).
			Msg("package mutation failed")
		return OpResult{Success: false, Message: errdefs.Message(err), PackageName: name, Duration: duration}
	}

	s.invalidatePackage(name, kind)
	return OpResult{Success: true, Message: msg, PackageName: name, Duration: duration}
}

// invalidatePackage drops every cached view a mutation may have falsified:
// the package's detail entry, the whole listing of its kind, and all cached
// searches, since install and outdated markers appear in all three.
func (s *Service) invalidatePackage(name string, kind catalog.Kind) {
	s.cache.Invalidate(DetailKey(name, kind))
	s.cache.Invalidate(ListingKey(kind))
	dropped := s.cache.InvalidatePattern("search_")

	s.log.Debug().
		Str("package", name).
		Int("searches_dropped", dropped).
		Msg("invalidated caches after mutation")
}

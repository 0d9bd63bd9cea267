package resilience

import (
	"context"

	"github.com/echozyr2001/BrewDeck/internal/logging"
)

// WithFallback runs primary and, if it fails, runs fallback. When both fail
// the primary's error is returned: callers depend on seeing why the
// preferred path failed, not the degraded one. The fallback's error is still
// logged so it stays observable.
func WithFallback[T any](ctx context.Context, primary, fallback func(context.Context) (T, error)) (T, error) {
	log := logging.FromContext(ctx)

	v, primaryErr := primary(ctx)
	if primaryErr == nil {
		return v, nil
	}

	log.Warn().Ctx(ctx).Err(primaryErr).Msg("primary operation failed, trying fallback")

	v, fallbackErr := fallback(ctx)
	if fallbackErr == nil {
		log.Info().Ctx(ctx).Msg("fallback operation succeeded")
		return v, nil
	}

	log.Error().Ctx(ctx).
		AnErr("primary_error", primaryErr).
		AnErr("fallback_error", fallbackErr).
		Msg("both primary and fallback operations failed")

	var zero T
	return zero, primaryErr
}

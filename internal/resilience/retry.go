package resilience

import (
	"context"
	"time"

	"github.com/echozyr2001/BrewDeck/internal/errdefs"
	"github.com/echozyr2001/BrewDeck/internal/logging"
)

// Retry invokes op until it succeeds, the policy is exhausted, or the error
// is permanent. The delay before attempt n+1 is policy.BackoffDuration()
// computed from the n failures recorded so far, so a 1s base yields 1s, 2s,
// 4s between attempts. The final error is returned unmodified; Retry never
// wraps it.
//
// Errors classified permanent by errdefs (missing packages, non-zero tool
// exits, decode failures, bad configuration) stop the loop immediately.
// Everything else, including errors wrapping no known sentinel, is treated
// as transient.
func Retry[T any](ctx context.Context, policy Policy, op func(context.Context) (T, error)) (T, error) {
	log := logging.FromContext(ctx)

	for {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}

		var zero T
		if errdefs.Permanent(err) || !policy.ShouldRetry() {
			return zero, err
		}

		delay := policy.BackoffDuration()
		policy.IncrementRetry()

		log.Warn().Ctx(ctx).
			Err(err).
			Dur("backoff", delay).
			Uint("attempt", policy.RetryCount).
			Uint("max_retries", policy.MaxRetries).
			Msg("operation failed, retrying")

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
}

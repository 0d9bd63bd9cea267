// Package tasks owns every background goroutine in the process. Loops are
// registered by name, share one cancellable context, and are joined during
// shutdown, so no background work outlives the service that started it.
package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/echozyr2001/BrewDeck/internal/logging"
)

// Registry tracks background tasks for orderly shutdown.
type Registry struct {
	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group
	log    zerolog.Logger
}

// New creates a Registry whose tasks stop when parent is cancelled or
// Shutdown is called.
func New(parent context.Context, logger zerolog.Logger) *Registry {
	ctx, cancel := context.WithCancel(parent)
	g, gctx := errgroup.WithContext(ctx)
	return &Registry{
		ctx:    gctx,
		cancel: cancel,
		g:      g,
		log:    logging.ComponentLogger(logger, "tasks"),
	}
}

// Go runs fn once in the background. A task's error is logged, never
// propagated: one failing task must not tear down its siblings.
func (r *Registry) Go(name string, fn func(context.Context) error) {
	r.g.Go(func() error {
		if err := fn(r.ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.log.Error().Str("task", name).Err(err).Msg("background task failed")
		}
		return nil
	})
}

// Every runs fn on a fixed interval until shutdown. A failing tick is logged
// and the loop keeps going.
func (r *Registry) Every(name string, interval time.Duration, fn func(context.Context) error) {
	r.Go(name, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					r.log.Warn().Str("task", name).Err(err).Msg("periodic task tick failed")
				}
			}
		}
	})
}

// Shutdown cancels every task and waits for all of them to return.
func (r *Registry) Shutdown() error {
	r.cancel()
	return r.g.Wait()
}

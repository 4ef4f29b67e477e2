// Package concurrency provides a small generic worker pool used to fan out
// I/O-bound repository scans (branch listing, status checks) across a bounded
// number of goroutines without each call site hand-rolling errgroup wiring.
package concurrency

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// config holds worker pool tuning options.
type config struct {
	workers int
}

// Option configures a WorkerPool.
type Option func(*config)

// WithWorkerCount sets the number of goroutines used to process items.
// Values <= 0 are ignored and the default (GOMAXPROCS) is kept.
func WithWorkerCount(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WorkerPool runs a function over a slice of inputs with bounded concurrency,
// preserving input order in the output slice.
type WorkerPool[In, Out any] struct {
	workers int
}

// NewWorkerPool creates a WorkerPool. Without WithWorkerCount, concurrency
// defaults to GOMAXPROCS.
func NewWorkerPool[In, Out any](opts ...Option) *WorkerPool[In, Out] {
	cfg := &config{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(cfg)
	}
	return &WorkerPool[In, Out]{workers: cfg.workers}
}

// Process runs fn over every item, bounded to the pool's worker count.
// The first error returned by fn cancels the remaining work and is returned;
// results are only valid when err is nil.
func (p *WorkerPool[In, Out]) Process(ctx context.Context, items []In, fn func(context.Context, In) (Out, error)) ([]Out, error) {
	results := make([]Out, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.workers, 1))

	for i, item := range items {
		g.Go(func() error {
			out, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Package parallel provides a bounded concurrent fan-out primitive.
//
// It exists to overlap I/O-bound per-item work (e.g. fetching one vector
// per descriptor from a remote backend) behind a blocking call. Callers
// drive it synchronously; all workers are joined before return.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options configure a fan-out call.
type Options struct {
	// Concurrency caps the number of in-flight tasks.
	// Defaults to runtime.GOMAXPROCS(0) when <= 0.
	Concurrency int

	// Limiter optionally throttles task starts, e.g. to respect a
	// backend's request budget. Nil means unthrottled.
	Limiter *rate.Limiter
}

// WithConcurrency sets the maximum number of in-flight tasks.
func WithConcurrency(n int) func(*Options) {
	return func(o *Options) {
		o.Concurrency = n
	}
}

// WithLimiter sets a rate limiter consulted before each task starts.
func WithLimiter(l *rate.Limiter) func(*Options) {
	return func(o *Options) {
		o.Limiter = l
	}
}

// Map applies fn to every item using up to Concurrency goroutines and
// returns the results in input order. Completion order across tasks is
// unspecified; only the result placement is ordered.
//
// The first error cancels the remaining tasks and is returned
// (fail-fast). Partial results are discarded on error.
func Map[I, O any](ctx context.Context, items []I, fn func(context.Context, I) (O, error), optFns ...func(o *Options)) ([]O, error) {
	opts := Options{
		Concurrency: runtime.GOMAXPROCS(0),
	}
	for _, optFn := range optFns {
		if optFn != nil {
			optFn(&opts)
		}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}

	results := make([]O, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, item := range items {
		g.Go(func() error {
			if opts.Limiter != nil {
				if err := opts.Limiter.Wait(gctx); err != nil {
					return err
				}
			}
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

// Package parallel runs a function over a slice with bounded concurrency while
// keeping results in input order.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map calls fn for every element of inputs with at most limit calls in flight
// and returns the results indexed by input position, independent of completion order.
// A limit <= 0 means no bound.
//
// fn cannot fail: callers fold per-element failures into R. The only error Map
// returns is the context's, in which case no results are returned at all; tasks
// not yet started are skipped and running ones see the canceled context.
func Map[T, R any](ctx context.Context, inputs []T, limit int, fn func(context.Context, T) R) ([]R, error) {
	results := make([]R, len(inputs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, input := range inputs {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = fn(ctx, input)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

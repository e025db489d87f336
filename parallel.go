package kdtree

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// NearestNeighborsBatch runs NearestNeighbors for every target using up to
// workers goroutines. results[i] belongs to targets[i]. If workers <= 1 the
// queries run sequentially on the calling goroutine.
//
// The first query error is returned. Cancelling ctx stops scheduling further
// queries; queries already running finish.
func (t *Tree[C, D]) NearestNeighborsBatch(ctx context.Context, targets [][]C, k, workers int) ([][][]C, error) {
	return runBatch(ctx, targets, workers, func(target []C) ([][]C, error) {
		return t.NearestNeighbors(target, k)
	})
}

// RadialSearchBatch runs RadialSearch for every center using up to workers
// goroutines. results[i] belongs to centers[i].
func (t *Tree[C, D]) RadialSearchBatch(ctx context.Context, centers [][]C, radius D, workers int) ([][][]C, error) {
	return runBatch(ctx, centers, workers, func(center []C) ([][]C, error) {
		return t.RadialSearch(center, radius)
	})
}

// runBatch applies query to each input. Each query writes only its own
// result slot, so no synchronization beyond the errgroup is needed.
func runBatch[C Coordinate](ctx context.Context, inputs [][]C, workers int, query func([]C) ([][]C, error)) ([][][]C, error) {
	results := make([][][]C, len(inputs))

	if workers <= 1 || len(inputs) <= 1 {
		for i, in := range inputs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := query(in)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := query(in)
			if err != nil {
				return err
			}
			results[i] = r
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

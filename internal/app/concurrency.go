package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Parallel2 executes two functions concurrently and returns both results or first error.
//
// Example:
//
//	client, products, err := Parallel2(ctx,
//	    func(ctx context.Context) (*domain.Client, error) { return clients.GetClient(ctx, id) },
//	    func(ctx context.Context) ([]*domain.Product, error) { return catalog.ListProducts(ctx, "", 20) },
//	)
func Parallel2[T1, T2 any](
	ctx context.Context,
	fn1 func(context.Context) (T1, error),
	fn2 func(context.Context) (T2, error),
) (result1 T1, result2 T2, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var fnErr error

		result1, fnErr = fn1(ctx)

		return fnErr
	})

	g.Go(func() error {
		var fnErr error

		result2, fnErr = fn2(ctx)

		return fnErr
	})

	err = g.Wait()
	if err != nil {
		var (
			zero1 T1
			zero2 T2
		)

		return zero1, zero2, fmt.Errorf("parallel execution failed: %w", err)
	}

	return result1, result2, nil
}

// ParallelLimit executes functions with bounded concurrency.
// At most 'limit' goroutines run simultaneously.
//
// Example:
//
//	products, err := ParallelLimit(ctx, 4, fetchFuncs...)
func ParallelLimit[T any](
	ctx context.Context,
	limit int,
	fns ...func(context.Context) (T, error),
) ([]T, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]T, len(fns))

	for i, fn := range fns {
		g.Go(func() error {
			result, err := fn(ctx)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, fmt.Errorf("parallel execution failed: %w", err)
	}

	return results, nil
}

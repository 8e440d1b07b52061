package concurrent

import (
	"errors"

	"golang.org/x/sync/errgroup"
)

// ForEach runs action for every item, at most limit at a time (limit <= 0
// means no limit). It waits for all goroutines and returns the first error.
func ForEach[T any](items []T, limit int, action func(T) error) error {
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, item := range items {
		item := item
		g.Go(func() error {
			return action(item)
		})
	}
	return g.Wait()
}

// Map applies fn to every item concurrently and returns the results in
// input order. Unlike ForEach it does not stop at the first failure: every
// item is processed and all errors are joined.
func Map[T, R any](items []T, limit int, fn func(T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			out[i], errs[i] = fn(item)
			return nil
		})
	}
	_ = g.Wait()
	return out, errors.Join(errs...)
}

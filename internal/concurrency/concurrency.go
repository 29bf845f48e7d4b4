package concurrency

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// NewPool returns a new pool where each task respects context cancellation.
// Wait() waits for every task and returns the first error seen.
func NewPool(ctx context.Context, maxGoroutines int) *pool.ContextPool {
	return pool.New().
		WithContext(ctx).
		WithFirstError().
		WithMaxGoroutines(maxGoroutines)
}

// NewResultPool is NewPool for tasks that produce a value. Results are collected in
// completion order; values of failed tasks are dropped.
func NewResultPool[T any](ctx context.Context, maxGoroutines int) *pool.ResultContextPool[T] {
	return pool.NewWithResults[T]().
		WithContext(ctx).
		WithFirstError().
		WithMaxGoroutines(maxGoroutines)
}

// Acquire takes a slot from limiter, giving up when ctx is done.
func Acquire(ctx context.Context, limiter chan struct{}) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case limiter <- struct{}{}:
		return nil
	}
}

// Release returns a slot taken with Acquire.
func Release(limiter chan struct{}) {
	<-limiter
}

package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewResultPool(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	t.Run("collects_every_result", func(t *testing.T) {
		p := NewResultPool[int](context.Background(), 2)
		for i := 0; i < 5; i++ {
			p.Go(func(ctx context.Context) (int, error) {
				return i, nil
			})
		}
		res, err := p.Wait()
		require.NoError(t, err)
		require.ElementsMatch(t, []int{0, 1, 2, 3, 4}, res)
	})

	t.Run("first_error_after_all_tasks", func(t *testing.T) {
		first := errors.New("first")
		var finished atomic.Int32

		p := NewResultPool[int](context.Background(), 3)
		p.Go(func(ctx context.Context) (int, error) {
			finished.Add(1)
			return 0, first
		})
		p.Go(func(ctx context.Context) (int, error) {
			time.Sleep(20 * time.Millisecond)
			finished.Add(1)
			return 0, errors.New("second")
		})
		p.Go(func(ctx context.Context) (int, error) {
			time.Sleep(10 * time.Millisecond)
			finished.Add(1)
			return 1, nil
		})

		_, err := p.Wait()
		require.ErrorIs(t, err, first)
		require.EqualValues(t, 3, finished.Load())
	})
}

func TestAcquire(t *testing.T) {
	limiter := make(chan struct{}, 1)

	require.NoError(t, Acquire(context.Background(), limiter))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, Acquire(ctx, limiter), context.Canceled)

	Release(limiter)
	require.NoError(t, Acquire(context.Background(), limiter))
	Release(limiter)
}

package resolver_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/enginehub/squirrelid/internal/mocks"
	"github.com/enginehub/squirrelid/pkg/profile"
	"github.com/enginehub/squirrelid/pkg/resolver"
)

func population(n int) ([]profile.Profile, []string) {
	profiles := make([]profile.Profile, 0, n)
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		p := profile.MustNew(uuid.New(), fmt.Sprintf("player%d", i))
		profiles = append(profiles, p)
		names = append(names, p.Name)
	}
	return profiles, names
}

// countingSource records how many keys each batch call received and how many
// calls ran at once.
type countingSource struct {
	*resolver.HashMapSource

	limit   int
	mu      sync.Mutex
	batches []int
	active  atomic.Int32
	peak    atomic.Int32
}

func (s *countingSource) IdealRequestLimit() int {
	return s.limit
}

func (s *countingSource) record(n int) func() {
	s.mu.Lock()
	s.batches = append(s.batches, n)
	s.mu.Unlock()

	cur := s.active.Add(1)
	for {
		peak := s.peak.Load()
		if cur <= peak || s.peak.CompareAndSwap(peak, cur) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return func() { s.active.Add(-1) }
}

func (s *countingSource) FindAllByName(ctx context.Context, names []string) ([]profile.Profile, error) {
	defer s.record(len(names))()
	return s.HashMapSource.FindAllByName(ctx, names)
}

func (s *countingSource) VisitAllByName(ctx context.Context, names []string, visit resolver.VisitFunc) error {
	defer s.record(len(names))()
	return s.HashMapSource.VisitAllByName(ctx, names, visit)
}

func TestParallelSplitsIntoJobs(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	ctx := context.Background()
	profiles, names := population(350)
	inner := &countingSource{HashMapSource: resolver.NewHashMapSource(profiles...), limit: resolver.NoLimit}

	src, err := resolver.NewParallelSource(inner, 2, resolver.WithProfilesPerJob(100))
	require.NoError(t, err)

	found, err := src.FindAllByName(ctx, names)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(profiles, found, sortProfiles))

	require.ElementsMatch(t, []int{100, 100, 100, 50}, inner.batches)
	require.LessOrEqual(t, inner.peak.Load(), int32(2))
}

func TestParallelUsesSourceLimitWhenSmaller(t *testing.T) {
	ctx := context.Background()
	profiles, names := population(25)
	inner := &countingSource{HashMapSource: resolver.NewHashMapSource(profiles...), limit: 10}

	src, err := resolver.NewParallelSource(inner, 4)
	require.NoError(t, err)

	_, err = src.FindAllByName(ctx, names)
	require.NoError(t, err)
	require.ElementsMatch(t, []int{10, 10, 5}, inner.batches)
}

func TestParallelWorkersAreSharedAcrossCalls(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	ctx := context.Background()
	profiles, names := population(200)
	inner := &countingSource{HashMapSource: resolver.NewHashMapSource(profiles...), limit: resolver.NoLimit}

	src, err := resolver.NewParallelSource(inner, 3, resolver.WithProfilesPerJob(10))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := src.FindAllByName(ctx, names)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, inner.peak.Load(), int32(3))
}

func TestParallelStreamingIsSerialized(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	ctx := context.Background()
	profiles, names := population(120)
	inner := &countingSource{HashMapSource: resolver.NewHashMapSource(profiles...), limit: resolver.NoLimit}

	src, err := resolver.NewParallelSource(inner, 4, resolver.WithProfilesPerJob(10))
	require.NoError(t, err)

	var inVisitor atomic.Int32
	var visited []profile.Profile
	err = src.VisitAllByName(ctx, names, func(p profile.Profile) bool {
		assert.Equal(t, int32(1), inVisitor.Add(1))
		defer inVisitor.Add(-1)
		visited = append(visited, p)
		return true
	})
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(profiles, visited, sortProfiles))
}

func TestParallelReturnsFirstErrorAfterAllJobs(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	inner := mocks.NewMockSource(ctrl)
	boom := errors.New("remote unavailable")

	var calls atomic.Int32
	inner.EXPECT().IdealRequestLimit().Return(resolver.NoLimit).AnyTimes()
	inner.EXPECT().FindAllByUUID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ids []uuid.UUID) ([]profile.Profile, error) {
			if calls.Add(1) == 1 {
				return nil, boom
			}
			return []profile.Profile{{ID: ids[0], Name: "someone"}}, nil
		}).Times(3)

	src, err := resolver.NewParallelSource(inner, 1, resolver.WithProfilesPerJob(1))
	require.NoError(t, err)

	found, err := src.FindAllByUUID(ctx, []uuid.UUID{uuid.New(), uuid.New(), uuid.New()})
	require.ErrorIs(t, err, boom)
	require.Nil(t, found)
}

func TestParallelCancellation(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	profiles, names := population(10)
	src, err := resolver.NewParallelSource(resolver.NewHashMapSource(profiles...), 2, resolver.WithProfilesPerJob(5))
	require.NoError(t, err)

	_, err = src.FindAllByName(ctx, names)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParallelSingleLookupsPassThrough(t *testing.T) {
	ctx := context.Background()
	src, err := resolver.NewParallelSource(resolver.NewHashMapSource(notch), 1)
	require.NoError(t, err)

	p, err := src.FindByName(ctx, "Notch")
	require.NoError(t, err)
	require.Equal(t, &notch, p)

	found, err := src.FindAllByUUID(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestNewParallelSourceValidates(t *testing.T) {
	tests := map[string]struct {
		src     resolver.Source
		workers int
		opts    []resolver.ParallelOption
	}{
		"nil_source":       {src: nil, workers: 1},
		"zero_workers":     {src: resolver.NewHashMapSource(), workers: 0},
		"zero_per_job":     {src: resolver.NewHashMapSource(), workers: 1, opts: []resolver.ParallelOption{resolver.WithProfilesPerJob(0)}},
		"negative_per_job": {src: resolver.NewHashMapSource(), workers: 2, opts: []resolver.ParallelOption{resolver.WithProfilesPerJob(-5)}},
		"negative_workers": {src: resolver.NewHashMapSource(), workers: -1},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := resolver.NewParallelSource(test.src, test.workers, test.opts...)
			require.ErrorIs(t, err, resolver.ErrInvalidConfig)
		})
	}
}

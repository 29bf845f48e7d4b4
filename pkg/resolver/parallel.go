package resolver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enginehub/squirrelid/internal/concurrency"
	"github.com/enginehub/squirrelid/internal/utils"
	"github.com/enginehub/squirrelid/pkg/logger"
	"github.com/enginehub/squirrelid/pkg/profile"
)

const DefaultProfilesPerJob = 100

type ParallelOption func(*ParallelSource)

// WithProfilesPerJob caps the number of keys handed to one job.
func WithProfilesPerJob(n int) ParallelOption {
	return func(s *ParallelSource) {
		s.profilesPerJob = n
	}
}

func WithParallelLogger(l logger.Logger) ParallelOption {
	return func(s *ParallelSource) {
		s.logger = l
	}
}

// ParallelSource splits batch lookups into jobs and runs them concurrently on
// a fixed number of workers. The worker limit is shared by every call made
// through the same instance. Single-key lookups go straight to the source.
type ParallelSource struct {
	src            Source
	workers        int
	profilesPerJob int
	limiter        chan struct{}
	logger         logger.Logger
}

var _ Source = (*ParallelSource)(nil)

func NewParallelSource(src Source, workers int, opts ...ParallelOption) (*ParallelSource, error) {
	s := &ParallelSource{
		src:            src,
		workers:        workers,
		profilesPerJob: DefaultProfilesPerJob,
		logger:         logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if src == nil {
		return nil, fmt.Errorf("%w: source is required", ErrInvalidConfig)
	}
	if s.workers < 1 {
		return nil, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, s.workers)
	}
	if s.profilesPerJob < 1 {
		return nil, fmt.Errorf("%w: profiles per job must be at least 1, got %d", ErrInvalidConfig, s.profilesPerJob)
	}

	s.limiter = make(chan struct{}, s.workers)
	return s, nil
}

func (s *ParallelSource) IdealRequestLimit() int {
	return s.src.IdealRequestLimit()
}

func (s *ParallelSource) jobSize() int {
	return max(1, min(s.profilesPerJob, s.src.IdealRequestLimit()))
}

func (s *ParallelSource) FindByName(ctx context.Context, name string) (*profile.Profile, error) {
	return s.src.FindByName(ctx, name)
}

func (s *ParallelSource) FindByUUID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return s.src.FindByUUID(ctx, id)
}

func (s *ParallelSource) FindAllByName(ctx context.Context, names []string) ([]profile.Profile, error) {
	ctx, span := startTrace(ctx, "parallel.FindAllByName", len(names))
	defer span.End()

	return findParallel(ctx, s, utils.Uniq(names), s.src.FindAllByName)
}

func (s *ParallelSource) FindAllByUUID(ctx context.Context, ids []uuid.UUID) ([]profile.Profile, error) {
	ctx, span := startTrace(ctx, "parallel.FindAllByUUID", len(ids))
	defer span.End()

	return findParallel(ctx, s, utils.Uniq(ids), s.src.FindAllByUUID)
}

func (s *ParallelSource) VisitAllByName(ctx context.Context, names []string, visit VisitFunc) error {
	ctx, span := startTrace(ctx, "parallel.VisitAllByName", len(names))
	defer span.End()

	return visitParallel(ctx, s, utils.Uniq(names), s.src.VisitAllByName, visit)
}

func (s *ParallelSource) VisitAllByUUID(ctx context.Context, ids []uuid.UUID, visit VisitFunc) error {
	ctx, span := startTrace(ctx, "parallel.VisitAllByUUID", len(ids))
	defer span.End()

	return visitParallel(ctx, s, utils.Uniq(ids), s.src.VisitAllByUUID, visit)
}

// runJob holds a worker slot for the duration of fn.
func (s *ParallelSource) runJob(ctx context.Context, size int, fn func() error) error {
	if err := concurrency.Acquire(ctx, s.limiter); err != nil {
		return err
	}
	defer concurrency.Release(s.limiter)

	if err := fn(); err != nil {
		s.logger.DebugWithContext(ctx, "lookup job failed", zap.Int("keys", size), zap.Error(err))
		return err
	}
	return nil
}

func findParallel[K any](
	ctx context.Context,
	s *ParallelSource,
	keys []K,
	find func(context.Context, []K) ([]profile.Profile, error),
) ([]profile.Profile, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	pool := concurrency.NewResultPool[[]profile.Profile](ctx, s.workers)
	for _, chunk := range utils.Chunk(keys, s.jobSize()) {
		pool.Go(func(ctx context.Context) ([]profile.Profile, error) {
			var found []profile.Profile
			err := s.runJob(ctx, len(chunk), func() error {
				var err error
				found, err = find(ctx, chunk)
				return err
			})
			return found, err
		})
	}

	results, err := pool.Wait()
	if err != nil {
		return nil, err
	}

	var found []profile.Profile
	for _, r := range results {
		found = append(found, r...)
	}
	return utils.UniqBy(found, idKey), nil
}

func visitParallel[K any](
	ctx context.Context,
	s *ParallelSource,
	keys []K,
	visitFn func(context.Context, []K, VisitFunc) error,
	visit VisitFunc,
) error {
	if len(keys) == 0 {
		return nil
	}

	var (
		mu      sync.Mutex
		seen    = make(map[uuid.UUID]struct{})
		stopped atomic.Bool
	)
	serialized := func(p profile.Profile) bool {
		mu.Lock()
		defer mu.Unlock()

		if stopped.Load() {
			return false
		}
		if _, dup := seen[p.ID]; dup {
			return true
		}
		seen[p.ID] = struct{}{}
		if !visit(p) {
			stopped.Store(true)
			return false
		}
		return true
	}

	pool := concurrency.NewPool(ctx, s.workers)
	for _, chunk := range utils.Chunk(keys, s.jobSize()) {
		pool.Go(func(ctx context.Context) error {
			if stopped.Load() {
				return nil
			}
			return s.runJob(ctx, len(chunk), func() error {
				return visitFn(ctx, chunk, serialized)
			})
		})
	}
	return pool.Wait()
}

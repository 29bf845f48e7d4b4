package resolver

import (
	"context"

	"github.com/google/uuid"

	"github.com/enginehub/squirrelid/internal/utils"
	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/profile"
)

// CacheSource resolves from a cache without ever writing to it. Names are only
// resolved when the cache is a [cache.NameCache]; otherwise every name is unknown.
type CacheSource struct {
	cache     cache.Cache
	nameCache cache.NameCache
}

var _ Source = (*CacheSource)(nil)

func NewCacheSource(c cache.Cache) *CacheSource {
	nc, _ := cache.AsNameCache(c)
	return &CacheSource{cache: c, nameCache: nc}
}

func (s *CacheSource) IdealRequestLimit() int {
	return NoLimit
}

func (s *CacheSource) FindByName(ctx context.Context, name string) (*profile.Profile, error) {
	if s.nameCache == nil {
		return nil, nil
	}
	p, ok := s.nameCache.GetIfPresentByName(ctx, name)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *CacheSource) FindAllByName(ctx context.Context, names []string) ([]profile.Profile, error) {
	return collect(func(visit VisitFunc) error {
		return s.VisitAllByName(ctx, names, visit)
	})
}

func (s *CacheSource) VisitAllByName(ctx context.Context, names []string, visit VisitFunc) error {
	if s.nameCache == nil || len(names) == 0 {
		return nil
	}

	names = utils.Uniq(names)
	found := s.nameCache.GetAllPresentByName(ctx, names)
	seen := make(map[uuid.UUID]struct{}, len(found))
	for _, name := range names {
		p, ok := found[name]
		if !ok {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		if !visit(p) {
			return nil
		}
	}
	return nil
}

func (s *CacheSource) FindByUUID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	p, ok := s.cache.GetIfPresent(ctx, id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *CacheSource) FindAllByUUID(ctx context.Context, ids []uuid.UUID) ([]profile.Profile, error) {
	return collect(func(visit VisitFunc) error {
		return s.VisitAllByUUID(ctx, ids, visit)
	})
}

func (s *CacheSource) VisitAllByUUID(ctx context.Context, ids []uuid.UUID, visit VisitFunc) error {
	if len(ids) == 0 {
		return nil
	}

	ids = utils.Uniq(ids)
	found := s.cache.GetAllPresent(ctx, ids)
	for _, id := range ids {
		if p, ok := found[id]; ok && !visit(p) {
			return nil
		}
	}
	return nil
}

package resolver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/profile"
)

// CacheForwardingSource writes every profile its source resolves into a cache
// before handing it back.
type CacheForwardingSource struct {
	src   Source
	cache cache.Cache
}

var _ Source = (*CacheForwardingSource)(nil)

func NewCacheForwardingSource(src Source, c cache.Cache) (*CacheForwardingSource, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: source is required", ErrInvalidConfig)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cache is required", ErrInvalidConfig)
	}
	return &CacheForwardingSource{src: src, cache: c}, nil
}

func (s *CacheForwardingSource) IdealRequestLimit() int {
	return s.src.IdealRequestLimit()
}

func (s *CacheForwardingSource) FindByName(ctx context.Context, name string) (*profile.Profile, error) {
	p, err := s.src.FindByName(ctx, name)
	return s.store(ctx, p, err)
}

func (s *CacheForwardingSource) FindAllByName(ctx context.Context, names []string) ([]profile.Profile, error) {
	profiles, err := s.src.FindAllByName(ctx, names)
	return s.storeAll(ctx, profiles, err)
}

func (s *CacheForwardingSource) VisitAllByName(ctx context.Context, names []string, visit VisitFunc) error {
	return s.src.VisitAllByName(ctx, names, s.forward(ctx, visit))
}

func (s *CacheForwardingSource) FindByUUID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	p, err := s.src.FindByUUID(ctx, id)
	return s.store(ctx, p, err)
}

func (s *CacheForwardingSource) FindAllByUUID(ctx context.Context, ids []uuid.UUID) ([]profile.Profile, error) {
	profiles, err := s.src.FindAllByUUID(ctx, ids)
	return s.storeAll(ctx, profiles, err)
}

func (s *CacheForwardingSource) VisitAllByUUID(ctx context.Context, ids []uuid.UUID, visit VisitFunc) error {
	return s.src.VisitAllByUUID(ctx, ids, s.forward(ctx, visit))
}

func (s *CacheForwardingSource) store(ctx context.Context, p *profile.Profile, err error) (*profile.Profile, error) {
	if p != nil {
		s.cache.Put(ctx, *p)
	}
	return p, err
}

func (s *CacheForwardingSource) storeAll(ctx context.Context, profiles []profile.Profile, err error) ([]profile.Profile, error) {
	if len(profiles) > 0 {
		s.cache.PutAll(ctx, profiles)
	}
	return profiles, err
}

func (s *CacheForwardingSource) forward(ctx context.Context, visit VisitFunc) VisitFunc {
	return func(p profile.Profile) bool {
		s.cache.Put(ctx, p)
		return visit(p)
	}
}

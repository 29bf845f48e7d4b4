package resolver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/enginehub/squirrelid/internal/utils"
	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/profile"
)

// PreferredCachedSource prefers connected players, then cached profiles, and
// only asks the resolver for what is left. Profiles found online or through
// the resolver are written to the cache.
type PreferredCachedSource struct {
	registry  PlayerRegistry
	cache     cache.Cache
	nameCache cache.NameCache
	resolver  Source
}

var _ Source = (*PreferredCachedSource)(nil)

// NewPreferredCachedSource builds the source. registry may be nil.
func NewPreferredCachedSource(registry PlayerRegistry, c cache.Cache, resolver Source) (*PreferredCachedSource, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: cache is required", ErrInvalidConfig)
	}
	if resolver == nil {
		return nil, fmt.Errorf("%w: resolver is required", ErrInvalidConfig)
	}
	nc, _ := cache.AsNameCache(c)
	return &PreferredCachedSource{
		registry:  registry,
		cache:     c,
		nameCache: nc,
		resolver:  resolver,
	}, nil
}

func (s *PreferredCachedSource) IdealRequestLimit() int {
	return s.resolver.IdealRequestLimit()
}

func (s *PreferredCachedSource) FindByName(ctx context.Context, name string) (*profile.Profile, error) {
	if s.registry != nil {
		if p, ok := s.registry.LookupName(ctx, name); ok {
			s.cache.Put(ctx, p)
			return &p, nil
		}
	}
	if s.nameCache != nil {
		if p, ok := s.nameCache.GetIfPresentByName(ctx, name); ok {
			return &p, nil
		}
	}

	p, err := s.resolver.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if p != nil {
		s.cache.Put(ctx, *p)
	}
	return p, nil
}

func (s *PreferredCachedSource) FindAllByName(ctx context.Context, names []string) ([]profile.Profile, error) {
	var found, fresh []profile.Profile
	remaining := make([]string, 0, len(names))

	for _, name := range utils.Uniq(names) {
		if s.registry != nil {
			if p, ok := s.registry.LookupName(ctx, name); ok {
				fresh = append(fresh, p)
				continue
			}
		}
		remaining = append(remaining, name)
	}

	if s.nameCache != nil && len(remaining) > 0 {
		cached := s.nameCache.GetAllPresentByName(ctx, remaining)
		misses := remaining[:0:0]
		for _, name := range remaining {
			if p, ok := cached[name]; ok {
				found = append(found, p)
				continue
			}
			misses = append(misses, name)
		}
		remaining = misses
	}

	if len(remaining) > 0 {
		resolved, err := s.resolver.FindAllByName(ctx, remaining)
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, resolved...)
	}

	if len(fresh) > 0 {
		s.cache.PutAll(ctx, fresh)
	}
	return utils.UniqBy(append(fresh, found...), idKey), nil
}

func (s *PreferredCachedSource) VisitAllByName(ctx context.Context, names []string, visit VisitFunc) error {
	return s.resolver.VisitAllByName(ctx, names, s.forward(ctx, visit))
}

func (s *PreferredCachedSource) FindByUUID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	if s.registry != nil {
		if p, ok := s.registry.LookupUUID(ctx, id); ok {
			s.cache.Put(ctx, p)
			return &p, nil
		}
	}
	if p, ok := s.cache.GetIfPresent(ctx, id); ok {
		return &p, nil
	}

	p, err := s.resolver.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p != nil {
		s.cache.Put(ctx, *p)
	}
	return p, nil
}

func (s *PreferredCachedSource) FindAllByUUID(ctx context.Context, ids []uuid.UUID) ([]profile.Profile, error) {
	var found, fresh []profile.Profile
	remaining := make([]uuid.UUID, 0, len(ids))

	for _, id := range utils.Uniq(ids) {
		if s.registry != nil {
			if p, ok := s.registry.LookupUUID(ctx, id); ok {
				fresh = append(fresh, p)
				continue
			}
		}
		remaining = append(remaining, id)
	}

	if len(remaining) > 0 {
		cached := s.cache.GetAllPresent(ctx, remaining)
		misses := remaining[:0:0]
		for _, id := range remaining {
			if p, ok := cached[id]; ok {
				found = append(found, p)
				continue
			}
			misses = append(misses, id)
		}
		remaining = misses
	}

	if len(remaining) > 0 {
		resolved, err := s.resolver.FindAllByUUID(ctx, remaining)
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, resolved...)
	}

	if len(fresh) > 0 {
		s.cache.PutAll(ctx, fresh)
	}
	return append(fresh, found...), nil
}

func (s *PreferredCachedSource) VisitAllByUUID(ctx context.Context, ids []uuid.UUID, visit VisitFunc) error {
	return s.resolver.VisitAllByUUID(ctx, ids, s.forward(ctx, visit))
}

func (s *PreferredCachedSource) forward(ctx context.Context, visit VisitFunc) VisitFunc {
	return func(p profile.Profile) bool {
		s.cache.Put(ctx, p)
		return visit(p)
	}
}

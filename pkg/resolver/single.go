package resolver

import (
	"context"

	"github.com/google/uuid"

	"github.com/enginehub/squirrelid/internal/utils"
	"github.com/enginehub/squirrelid/pkg/profile"
)

// SingleRequestSource derives the batch and streaming operations of a Source
// by issuing one lookup per key. Sources that can only answer one key at a
// time embed it.
type SingleRequestSource struct {
	lookup Lookup
}

func NewSingleRequestSource(lookup Lookup) *SingleRequestSource {
	return &SingleRequestSource{lookup: lookup}
}

func (s *SingleRequestSource) IdealRequestLimit() int {
	return NoLimit
}

func (s *SingleRequestSource) FindByName(ctx context.Context, name string) (*profile.Profile, error) {
	return s.lookup.FindByName(ctx, name)
}

func (s *SingleRequestSource) FindAllByName(ctx context.Context, names []string) ([]profile.Profile, error) {
	return collect(func(visit VisitFunc) error {
		return s.VisitAllByName(ctx, names, visit)
	})
}

func (s *SingleRequestSource) VisitAllByName(ctx context.Context, names []string, visit VisitFunc) error {
	return visitEach(ctx, utils.Uniq(names), s.lookup.FindByName, visit)
}

func (s *SingleRequestSource) FindByUUID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	return s.lookup.FindByUUID(ctx, id)
}

func (s *SingleRequestSource) FindAllByUUID(ctx context.Context, ids []uuid.UUID) ([]profile.Profile, error) {
	return collect(func(visit VisitFunc) error {
		return s.VisitAllByUUID(ctx, ids, visit)
	})
}

func (s *SingleRequestSource) VisitAllByUUID(ctx context.Context, ids []uuid.UUID, visit VisitFunc) error {
	return visitEach(ctx, utils.Uniq(ids), s.lookup.FindByUUID, visit)
}

func visitEach[K any](ctx context.Context, keys []K, find func(context.Context, K) (*profile.Profile, error), visit VisitFunc) error {
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		p, err := find(ctx, key)
		if err != nil {
			return err
		}
		if p != nil && !visit(*p) {
			return nil
		}
	}
	return nil
}

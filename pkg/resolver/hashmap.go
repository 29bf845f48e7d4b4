package resolver

import (
	"context"

	"github.com/google/uuid"

	"github.com/enginehub/squirrelid/internal/utils"
	"github.com/enginehub/squirrelid/pkg/profile"
)

// HashMapSource answers from profiles registered with Put. Names match case-insensitively.
type HashMapSource struct {
	*SingleRequestSource

	byName utils.TypedSyncMap[string, profile.Profile]
	byID   utils.TypedSyncMap[uuid.UUID, profile.Profile]
}

var _ Source = (*HashMapSource)(nil)

// NewHashMapSource returns a source seeded with profiles.
func NewHashMapSource(profiles ...profile.Profile) *HashMapSource {
	s := &HashMapSource{}
	s.SingleRequestSource = NewSingleRequestSource(s)
	s.PutAll(profiles)
	return s
}

// Put makes p resolvable by both its name and its ID. A previous name of the
// same ID stops resolving.
func (s *HashMapSource) Put(p profile.Profile) {
	key := profile.NameKey(p.Name)
	if prev, loaded := s.byID.Swap(p.ID, p); loaded && profile.NameKey(prev.Name) != key {
		s.byName.CompareAndDelete(profile.NameKey(prev.Name), prev)
	}
	s.byName.Store(key, p)
}

func (s *HashMapSource) PutAll(profiles []profile.Profile) {
	for _, p := range profiles {
		s.Put(p)
	}
}

func (s *HashMapSource) FindByName(_ context.Context, name string) (*profile.Profile, error) {
	p, ok := s.byName.Load(profile.NameKey(name))
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *HashMapSource) FindByUUID(_ context.Context, id uuid.UUID) (*profile.Profile, error) {
	p, ok := s.byID.Load(id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

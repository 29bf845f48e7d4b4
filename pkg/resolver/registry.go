//go:generate mockgen -source registry.go -destination ../../internal/mocks/mock_registry.go -package mocks

package resolver

import (
	"context"

	"github.com/google/uuid"

	"github.com/enginehub/squirrelid/pkg/profile"
)

// PlayerRegistry is implemented by hosts that know which players are currently
// connected. Those players' names are authoritative and need no remote lookup.
type PlayerRegistry interface {
	LookupName(ctx context.Context, name string) (profile.Profile, bool)
	LookupUUID(ctx context.Context, id uuid.UUID) (profile.Profile, bool)
}

// RegistrySource resolves players known to a PlayerRegistry.
type RegistrySource struct {
	*SingleRequestSource

	registry PlayerRegistry
}

var _ Source = (*RegistrySource)(nil)

// NewRegistrySource wraps registry. It returns false when no registry is
// available, in which case the source must be left out of the pipeline.
func NewRegistrySource(registry PlayerRegistry) (*RegistrySource, bool) {
	if registry == nil {
		return nil, false
	}
	s := &RegistrySource{registry: registry}
	s.SingleRequestSource = NewSingleRequestSource(s)
	return s, true
}

func (s *RegistrySource) FindByName(ctx context.Context, name string) (*profile.Profile, error) {
	p, ok := s.registry.LookupName(ctx, name)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *RegistrySource) FindByUUID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	p, ok := s.registry.LookupUUID(ctx, id)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

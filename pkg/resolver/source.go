//go:generate mockgen -source source.go -destination ../../internal/mocks/mock_source.go -package mocks

// Package resolver composes profile lookup sources into a single lookup pipeline.
//
// A lookup that finds nothing is not an error: single-key lookups return a nil
// profile and batch lookups leave unknown keys out of the result.
package resolver

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/enginehub/squirrelid/pkg/profile"
)

var tracer = otel.Tracer("squirrelid/pkg/resolver")

// NoLimit is the ideal request limit of sources with no per-request cost.
const NoLimit = math.MaxInt

var ErrInvalidConfig = errors.New("invalid resolver configuration")

// VisitFunc receives profiles as they are resolved. Returning false asks the
// source to stop early; a source may still deliver profiles it already has in hand.
type VisitFunc func(profile.Profile) bool

// Source resolves profiles by name or by ID.
type Source interface {
	// IdealRequestLimit is the largest batch worth sending in one call.
	IdealRequestLimit() int

	// FindByName returns the profile currently holding name, or nil when it is unknown.
	FindByName(ctx context.Context, name string) (*profile.Profile, error)

	// FindAllByName returns the profiles for every known name. Order is unspecified.
	FindAllByName(ctx context.Context, names []string) ([]profile.Profile, error)

	// VisitAllByName passes each found profile to visit as soon as it is resolved.
	VisitAllByName(ctx context.Context, names []string, visit VisitFunc) error

	// FindByUUID returns the profile for id, or nil when it is unknown.
	FindByUUID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)

	// FindAllByUUID returns the profiles for every known ID. Order is unspecified.
	FindAllByUUID(ctx context.Context, ids []uuid.UUID) ([]profile.Profile, error)

	// VisitAllByUUID passes each found profile to visit as soon as it is resolved.
	VisitAllByUUID(ctx context.Context, ids []uuid.UUID, visit VisitFunc) error
}

// Lookup is the single-key half of a Source.
type Lookup interface {
	FindByName(ctx context.Context, name string) (*profile.Profile, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
}

// collect runs a visiting lookup and gathers everything it produces.
func collect(fn func(VisitFunc) error) ([]profile.Profile, error) {
	var found []profile.Profile
	err := fn(func(p profile.Profile) bool {
		found = append(found, p)
		return true
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func startTrace(ctx context.Context, name string, keys int) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.Int("keys", keys)))
}

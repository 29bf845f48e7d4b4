//go:generate mockgen -source cache.go -destination ../../internal/mocks/mock_cache.go -package mocks -exclude_interfaces batchWriter,batchReader

// Package cache defines the profile cache contract shared by the in-memory,
// SQL and Redis backed implementations.
package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/enginehub/squirrelid/pkg/profile"
)

// Cache stores the last known name of a player ID.
//
// Caches are best effort: failures of the backing store are logged by the
// implementation and surface as a no-op write or a miss. Implementations must
// be safe for concurrent use.
type Cache interface {
	// Put stores p, replacing any previous entry with the same ID.
	Put(ctx context.Context, p profile.Profile)

	// PutAll stores every profile in profiles.
	PutAll(ctx context.Context, profiles []profile.Profile)

	// GetIfPresent returns the cached profile for id, if any.
	GetIfPresent(ctx context.Context, id uuid.UUID) (profile.Profile, bool)

	// GetAllPresent returns the cached profiles for ids. IDs that are not cached are absent.
	GetAllPresent(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]profile.Profile
}

// NameCache is a Cache that can also be queried by name. Names match case-insensitively.
type NameCache interface {
	Cache

	GetIfPresentByName(ctx context.Context, name string) (profile.Profile, bool)

	// GetAllPresentByName returns the cached profiles keyed by the name as requested.
	GetAllPresentByName(ctx context.Context, names []string) map[string]profile.Profile
}

// AsNameCache reports whether c supports lookups by name.
func AsNameCache(c Cache) (NameCache, bool) {
	nc, ok := c.(NameCache)
	return nc, ok
}

type batchWriter interface {
	PutAll(ctx context.Context, profiles []profile.Profile)
}

type batchReader interface {
	GetAllPresent(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]profile.Profile
}

// PutOne implements Put in terms of PutAll.
func PutOne(ctx context.Context, w batchWriter, p profile.Profile) {
	w.PutAll(ctx, []profile.Profile{p})
}

// GetOne implements GetIfPresent in terms of GetAllPresent.
func GetOne(ctx context.Context, r batchReader, id uuid.UUID) (profile.Profile, bool) {
	p, ok := r.GetAllPresent(ctx, []uuid.UUID{id})[id]
	return p, ok
}

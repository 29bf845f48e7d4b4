package resolver

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/enginehub/squirrelid/pkg/profile"
)

// NameMatching decides when a resolved profile answers a requested name.
type NameMatching int

const (
	// CaseInsensitive treats names differing only in case as the same player,
	// which is how the remote service assigns names.
	CaseInsensitive NameMatching = iota
	CaseSensitive
)

func (m NameMatching) key(name string) string {
	if m == CaseSensitive {
		return name
	}
	return profile.NameKey(name)
}

type CombinedOption func(*CombinedSource)

func WithNameMatching(m NameMatching) CombinedOption {
	return func(s *CombinedSource) {
		s.matching = m
	}
}

// CombinedSource asks its members in order, each one only for the keys that
// every earlier member failed to resolve.
type CombinedSource struct {
	sources  []Source
	matching NameMatching
}

var _ Source = (*CombinedSource)(nil)

// NewCombinedSource returns a source querying sources in order. Nil members are skipped.
func NewCombinedSource(sources []Source, opts ...CombinedOption) *CombinedSource {
	s := &CombinedSource{matching: CaseInsensitive}
	for _, src := range sources {
		if src != nil {
			s.sources = append(s.sources, src)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IdealRequestLimit is the smallest limit of any member.
func (s *CombinedSource) IdealRequestLimit() int {
	limit := NoLimit
	for _, src := range s.sources {
		limit = min(limit, src.IdealRequestLimit())
	}
	return limit
}

func (s *CombinedSource) FindByName(ctx context.Context, name string) (*profile.Profile, error) {
	for _, src := range s.sources {
		p, err := src.FindByName(ctx, name)
		if err != nil || p != nil {
			return p, err
		}
	}
	return nil, nil
}

func (s *CombinedSource) FindByUUID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	for _, src := range s.sources {
		p, err := src.FindByUUID(ctx, id)
		if err != nil || p != nil {
			return p, err
		}
	}
	return nil, nil
}

func (s *CombinedSource) FindAllByName(ctx context.Context, names []string) ([]profile.Profile, error) {
	ctx, span := startTrace(ctx, "combined.FindAllByName", len(names))
	defer span.End()

	missing := newMissingSet(names, s.matching.key)
	return findAll(ctx, s.sources, missing, Source.FindAllByName, s.nameKey)
}

func (s *CombinedSource) VisitAllByName(ctx context.Context, names []string, visit VisitFunc) error {
	ctx, span := startTrace(ctx, "combined.VisitAllByName", len(names))
	defer span.End()

	missing := newMissingSet(names, s.matching.key)
	return visitAll(ctx, s.sources, missing, Source.VisitAllByName, s.nameKey, visit)
}

func (s *CombinedSource) FindAllByUUID(ctx context.Context, ids []uuid.UUID) ([]profile.Profile, error) {
	ctx, span := startTrace(ctx, "combined.FindAllByUUID", len(ids))
	defer span.End()

	missing := newMissingSet(ids, identity[uuid.UUID])
	return findAll(ctx, s.sources, missing, Source.FindAllByUUID, idKey)
}

func (s *CombinedSource) VisitAllByUUID(ctx context.Context, ids []uuid.UUID, visit VisitFunc) error {
	ctx, span := startTrace(ctx, "combined.VisitAllByUUID", len(ids))
	defer span.End()

	missing := newMissingSet(ids, identity[uuid.UUID])
	return visitAll(ctx, s.sources, missing, Source.VisitAllByUUID, idKey, visit)
}

func (s *CombinedSource) nameKey(p profile.Profile) string {
	return s.matching.key(p.Name)
}

func idKey(p profile.Profile) uuid.UUID {
	return p.ID
}

func identity[T any](v T) T {
	return v
}

func findAll[Q any, K comparable](
	ctx context.Context,
	sources []Source,
	missing *missingSet[Q, K],
	find func(Source, context.Context, []Q) ([]profile.Profile, error),
	keyOf func(profile.Profile) K,
) ([]profile.Profile, error) {
	var found []profile.Profile
	for _, src := range sources {
		remaining := missing.remaining()
		if len(remaining) == 0 {
			break
		}

		profiles, err := find(src, ctx, remaining)
		if err != nil {
			return nil, err
		}
		for _, p := range profiles {
			if missing.claim(keyOf(p), p.ID) {
				found = append(found, p)
			}
		}
	}
	return found, nil
}

func visitAll[Q any, K comparable](
	ctx context.Context,
	sources []Source,
	missing *missingSet[Q, K],
	visitFn func(Source, context.Context, []Q, VisitFunc) error,
	keyOf func(profile.Profile) K,
	visit VisitFunc,
) error {
	var stopped atomic.Bool
	forward := func(p profile.Profile) bool {
		if stopped.Load() {
			return false
		}
		if !missing.claim(keyOf(p), p.ID) {
			return true
		}
		if !visit(p) {
			stopped.Store(true)
			return false
		}
		return true
	}

	for _, src := range sources {
		remaining := missing.remaining()
		if len(remaining) == 0 || stopped.Load() {
			return nil
		}
		if err := visitFn(src, ctx, remaining, forward); err != nil {
			return err
		}
	}
	return nil
}

// missingSet tracks which requested keys are still unresolved. It is shared
// with the visitor handed to each member, which may call it from several
// goroutines.
type missingSet[Q any, K comparable] struct {
	mu        sync.Mutex
	order     []Q
	keyOf     func(Q) K
	requested map[K]struct{}
	missing   map[K]struct{}
	reported  map[uuid.UUID]struct{}
}

func newMissingSet[Q any, K comparable](queries []Q, keyOf func(Q) K) *missingSet[Q, K] {
	m := &missingSet[Q, K]{
		keyOf:     keyOf,
		requested: make(map[K]struct{}, len(queries)),
		missing:   make(map[K]struct{}, len(queries)),
		reported:  make(map[uuid.UUID]struct{}, len(queries)),
	}
	for _, q := range queries {
		k := keyOf(q)
		if _, dup := m.requested[k]; dup {
			continue
		}
		m.requested[k] = struct{}{}
		m.missing[k] = struct{}{}
		m.order = append(m.order, q)
	}
	return m
}

// remaining returns the unresolved queries in request order.
func (m *missingSet[Q, K]) remaining() []Q {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Q, 0, len(m.missing))
	for _, q := range m.order {
		if _, ok := m.missing[m.keyOf(q)]; ok {
			out = append(out, q)
		}
	}
	return out
}

// claim records that a profile with the given key and ID was resolved and
// reports whether it should be passed on. Profiles for keys that were already
// answered, or for IDs already reported, are dropped.
func (m *missingSet[Q, K]) claim(key K, id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, dup := m.reported[id]; dup {
		delete(m.missing, key)
		return false
	}
	_, wasMissing := m.missing[key]
	_, wasRequested := m.requested[key]
	if wasRequested && !wasMissing {
		return false
	}

	delete(m.missing, key)
	m.reported[id] = struct{}{}
	return true
}

// Package lru provides a bounded in-memory profile cache backed by theine.
package lru

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Yiling-J/theine-go"
	"github.com/google/uuid"

	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/profile"
)

const (
	cacheName = "lru"

	DefaultMaxSize = 10000
)

type Option func(*Cache)

// WithMaxSize bounds the number of cached profiles.
func WithMaxSize(size int64) Option {
	return func(c *Cache) {
		c.maxSize = size
	}
}

// WithTTL expires entries after ttl. Zero keeps entries until they are evicted.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// Cache is a size bounded NameCache. The name index is a second theine cache;
// a name whose ID was evicted is treated as a miss.
type Cache struct {
	maxSize int64
	ttl     time.Duration

	// serializes writers so both indexes move together
	mu     sync.Mutex
	byID   *theine.Cache[uuid.UUID, string]
	byName *theine.Cache[string, uuid.UUID]
}

var _ cache.NameCache = (*Cache)(nil)

func New(opts ...Option) (*Cache, error) {
	c := &Cache{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxSize <= 0 {
		return nil, fmt.Errorf("lru cache size must be positive, got %d", c.maxSize)
	}
	if c.ttl < 0 {
		return nil, fmt.Errorf("lru cache ttl must not be negative, got %s", c.ttl)
	}

	byID, err := theine.NewBuilder[uuid.UUID, string](c.maxSize).Build()
	if err != nil {
		return nil, fmt.Errorf("initialize lru cache: %w", err)
	}
	byName, err := theine.NewBuilder[string, uuid.UUID](c.maxSize).Build()
	if err != nil {
		byID.Close()
		return nil, fmt.Errorf("initialize lru name index: %w", err)
	}
	c.byID = byID
	c.byName = byName
	return c, nil
}

func (c *Cache) Put(_ context.Context, p profile.Profile) {
	cache.ObserveRequest(cacheName, cache.OpPut)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(p)
}

func (c *Cache) PutAll(_ context.Context, profiles []profile.Profile) {
	cache.ObserveRequest(cacheName, cache.OpPut)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range profiles {
		c.put(p)
	}
}

func (c *Cache) put(p profile.Profile) {
	key := profile.NameKey(p.Name)
	if oldName, ok := c.byID.Get(p.ID); ok && profile.NameKey(oldName) != key {
		if owner, ok := c.byName.Get(profile.NameKey(oldName)); ok && owner == p.ID {
			c.byName.Delete(profile.NameKey(oldName))
		}
	}
	if c.ttl > 0 {
		c.byID.SetWithTTL(p.ID, p.Name, 1, c.ttl)
		c.byName.SetWithTTL(key, p.ID, 1, c.ttl)
		return
	}
	c.byID.Set(p.ID, p.Name, 1)
	c.byName.Set(key, p.ID, 1)
}

func (c *Cache) GetIfPresent(_ context.Context, id uuid.UUID) (profile.Profile, bool) {
	cache.ObserveRequest(cacheName, cache.OpGet)

	name, ok := c.byID.Get(id)
	if !ok {
		return profile.Profile{}, false
	}
	cache.ObserveHits(cacheName, 1)
	return profile.Profile{ID: id, Name: name}, true
}

func (c *Cache) GetAllPresent(_ context.Context, ids []uuid.UUID) map[uuid.UUID]profile.Profile {
	cache.ObserveRequest(cacheName, cache.OpGetAll)

	found := make(map[uuid.UUID]profile.Profile, len(ids))
	for _, id := range ids {
		if name, ok := c.byID.Get(id); ok {
			found[id] = profile.Profile{ID: id, Name: name}
		}
	}
	cache.ObserveHits(cacheName, len(found))
	return found
}

func (c *Cache) GetIfPresentByName(_ context.Context, name string) (profile.Profile, bool) {
	cache.ObserveRequest(cacheName, cache.OpByName)

	p, ok := c.lookupName(name)
	if ok {
		cache.ObserveHits(cacheName, 1)
	}
	return p, ok
}

func (c *Cache) GetAllPresentByName(_ context.Context, names []string) map[string]profile.Profile {
	cache.ObserveRequest(cacheName, cache.OpByName)

	found := make(map[string]profile.Profile, len(names))
	for _, name := range names {
		if p, ok := c.lookupName(name); ok {
			found[name] = p
		}
	}
	cache.ObserveHits(cacheName, len(found))
	return found
}

func (c *Cache) lookupName(name string) (profile.Profile, bool) {
	key := profile.NameKey(name)
	id, ok := c.byName.Get(key)
	if !ok {
		return profile.Profile{}, false
	}
	current, ok := c.byID.Get(id)
	if !ok || profile.NameKey(current) != key {
		return profile.Profile{}, false
	}
	return profile.Profile{ID: id, Name: current}, true
}

// Close stops the background maintenance of both indexes.
func (c *Cache) Close() {
	c.byID.Close()
	c.byName.Close()
}

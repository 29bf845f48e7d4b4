// Package memory provides a process-local bidirectional profile cache.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/profile"
)

const cacheName = "memory"

// Cache keeps one name per ID and one ID per name. Storing a name that is
// already bound to another ID drops the older binding entirely.
type Cache struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]string
	byName map[string]uuid.UUID
}

var _ cache.NameCache = (*Cache)(nil)

func New() *Cache {
	return &Cache{
		byID:   make(map[uuid.UUID]string),
		byName: make(map[string]uuid.UUID),
	}
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
	if oldName, ok := c.byID[p.ID]; ok {
		delete(c.byName, profile.NameKey(oldName))
	}
	if oldID, ok := c.byName[key]; ok && oldID != p.ID {
		delete(c.byID, oldID)
	}
	c.byID[p.ID] = p.Name
	c.byName[key] = p.ID
}

func (c *Cache) GetIfPresent(_ context.Context, id uuid.UUID) (profile.Profile, bool) {
	cache.ObserveRequest(cacheName, cache.OpGet)

	c.mu.RLock()
	name, ok := c.byID[id]
	c.mu.RUnlock()
	if !ok {
		return profile.Profile{}, false
	}
	cache.ObserveHits(cacheName, 1)
	return profile.Profile{ID: id, Name: name}, true
}

func (c *Cache) GetAllPresent(_ context.Context, ids []uuid.UUID) map[uuid.UUID]profile.Profile {
	cache.ObserveRequest(cacheName, cache.OpGetAll)

	found := make(map[uuid.UUID]profile.Profile, len(ids))
	c.mu.RLock()
	for _, id := range ids {
		if name, ok := c.byID[id]; ok {
			found[id] = profile.Profile{ID: id, Name: name}
		}
	}
	c.mu.RUnlock()

	cache.ObserveHits(cacheName, len(found))
	return found
}

func (c *Cache) GetIfPresentByName(_ context.Context, name string) (profile.Profile, bool) {
	cache.ObserveRequest(cacheName, cache.OpByName)

	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byName[profile.NameKey(name)]
	if !ok {
		return profile.Profile{}, false
	}
	cache.ObserveHits(cacheName, 1)
	return profile.Profile{ID: id, Name: c.byID[id]}, true
}

func (c *Cache) GetAllPresentByName(_ context.Context, names []string) map[string]profile.Profile {
	cache.ObserveRequest(cacheName, cache.OpByName)

	found := make(map[string]profile.Profile, len(names))
	c.mu.RLock()
	for _, name := range names {
		if id, ok := c.byName[profile.NameKey(name)]; ok {
			found[name] = profile.Profile{ID: id, Name: c.byID[id]}
		}
	}
	c.mu.RUnlock()

	cache.ObserveHits(cacheName, len(found))
	return found
}

// Len returns the number of cached profiles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

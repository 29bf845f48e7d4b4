package config

import (
	"fmt"
)

// CacheEngine names the backend of the profile cache.
type CacheEngine string

const (
	None     CacheEngine = "none"
	Memory   CacheEngine = "memory"
	LRU      CacheEngine = "lru"
	SQLite   CacheEngine = "sqlite"
	MySQL    CacheEngine = "mysql"
	Postgres CacheEngine = "postgres"
	Redis    CacheEngine = "redis"
)

var cacheEngines = []CacheEngine{None, Memory, LRU, SQLite, MySQL, Postgres, Redis}

func (e CacheEngine) String() string {
	return string(e)
}

func (e CacheEngine) IsValid() bool {
	for _, engine := range cacheEngines {
		if engine == e {
			return true
		}
	}
	return false
}

// IsSQL reports whether the engine keeps its schema in goose migrations.
func (e CacheEngine) IsSQL() bool {
	return e == SQLite || e == MySQL || e == Postgres
}

// NeedsURI reports whether the engine connects to an external store.
func (e CacheEngine) NeedsURI() bool {
	return e.IsSQL() || e == Redis
}

func NewCacheEngine(engine string) (CacheEngine, error) {
	e := CacheEngine(engine)
	if !e.IsValid() {
		return "", fmt.Errorf("invalid cache engine '%s'", engine)
	}
	return e, nil
}

package sqlcommon

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/logger"
	"github.com/enginehub/squirrelid/pkg/profile"
	"github.com/enginehub/squirrelid/pkg/telemetry"
)

var tracer = otel.Tracer("squirrelid/pkg/cache/sqlcommon")

// Cache adapts the shared queries to the best effort [cache.NameCache] contract.
// Engines embed it and add their own connection handling.
type Cache struct {
	engine string
	dbInfo *DBInfo
	logger logger.Logger

	// non-nil when every statement must run alone
	mu *sync.Mutex
}

var _ cache.NameCache = (*Cache)(nil)

// NewCache returns a Cache reporting metrics and traces under engine. When
// serialize is set only one statement runs at a time on this instance.
func NewCache(engine string, dbInfo *DBInfo, log logger.Logger, serialize bool) *Cache {
	c := &Cache{
		engine: engine,
		dbInfo: dbInfo,
		logger: log,
	}
	if serialize {
		c.mu = &sync.Mutex{}
	}
	return c
}

func (c *Cache) startTrace(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, c.engine+"."+name)
}

func (c *Cache) lock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

func (c *Cache) fail(ctx context.Context, span trace.Span, op string, err error) {
	telemetry.TraceError(span, err)
	cache.ObserveError(c.engine, op)
	c.logger.WarnWithContext(ctx, "profile cache request failed",
		zap.String("cache", c.engine),
		zap.String("op", op),
		zap.Error(err),
	)
}

func (c *Cache) Put(ctx context.Context, p profile.Profile) {
	cache.PutOne(ctx, c, p)
}

func (c *Cache) PutAll(ctx context.Context, profiles []profile.Profile) {
	ctx, span := c.startTrace(ctx, "PutAll")
	defer span.End()
	cache.ObserveRequest(c.engine, cache.OpPut)

	if len(profiles) == 0 {
		return
	}

	defer c.lock()()
	if err := PutAll(ctx, c.dbInfo, profiles); err != nil {
		c.fail(ctx, span, cache.OpPut, err)
	}
}

func (c *Cache) GetIfPresent(ctx context.Context, id uuid.UUID) (profile.Profile, bool) {
	return cache.GetOne(ctx, c, id)
}

func (c *Cache) GetAllPresent(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]profile.Profile {
	ctx, span := c.startTrace(ctx, "GetAllPresent")
	defer span.End()
	cache.ObserveRequest(c.engine, cache.OpGetAll)

	if len(ids) == 0 {
		return map[uuid.UUID]profile.Profile{}
	}

	defer c.lock()()
	found, err := GetAllPresent(ctx, c.dbInfo, ids)
	if err != nil {
		c.fail(ctx, span, cache.OpGetAll, err)
		return map[uuid.UUID]profile.Profile{}
	}
	cache.ObserveHits(c.engine, len(found))
	return found
}

func (c *Cache) GetIfPresentByName(ctx context.Context, name string) (profile.Profile, bool) {
	p, ok := c.GetAllPresentByName(ctx, []string{name})[name]
	return p, ok
}

func (c *Cache) GetAllPresentByName(ctx context.Context, names []string) map[string]profile.Profile {
	ctx, span := c.startTrace(ctx, "GetAllPresentByName")
	defer span.End()
	cache.ObserveRequest(c.engine, cache.OpByName)

	if len(names) == 0 {
		return map[string]profile.Profile{}
	}

	defer c.lock()()
	found, err := GetAllPresentByName(ctx, c.dbInfo, names)
	if err != nil {
		c.fail(ctx, span, cache.OpByName, err)
		return map[string]profile.Profile{}
	}
	cache.ObserveHits(c.engine, len(found))
	return found
}

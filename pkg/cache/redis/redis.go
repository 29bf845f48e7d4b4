// Package redis provides a profile cache shared through a Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/logger"
	"github.com/enginehub/squirrelid/pkg/profile"
)

const (
	cacheName = "redis"

	DefaultKeyPrefix = "squirrelid"
)

var ErrAddrMissing = fmt.Errorf("redis addresses must be specified")

type Option func(c *Cache)

// Cache stores two keys per profile: <prefix>:uuid:<id> holding the name and
// <prefix>:name:<lower-cased name> holding the ID. A name key whose ID now
// carries a different name is treated as a miss. Reads are pipelined GETs
// rather than MGET so that keys may live in different cluster slots.
type Cache struct {
	db             int
	ttl            time.Duration
	addrs          []string
	userCredential string
	passCredential string
	keyPrefix      string
	logger         logger.Logger
	client         redis.UniversalClient
}

var _ cache.NameCache = (*Cache)(nil)

// WithTTL expires cached profiles after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithAddr sets the comma separated list of server addresses.
func WithAddr(addrs string) Option {
	return func(c *Cache) {
		c.addrs = strings.Split(addrs, ",")
	}
}

func WithUserCredential(credential string) Option {
	return func(c *Cache) {
		c.userCredential = credential
	}
}

func WithPassCredential(credential string) Option {
	return func(c *Cache) {
		c.passCredential = credential
	}
}

func WithDatabase(db int) Option {
	return func(c *Cache) {
		c.db = db
	}
}

func WithKeyPrefix(prefix string) Option {
	return func(c *Cache) {
		c.keyPrefix = prefix
	}
}

func WithLogger(l logger.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// WithClient uses an existing client instead of dialing the configured addresses.
func WithClient(client redis.UniversalClient) Option {
	return func(c *Cache) {
		c.client = client
	}
}

// New creates a new Redis backed cache.
func New(opts ...Option) (*Cache, error) {
	c := &Cache{
		keyPrefix: DefaultKeyPrefix,
		logger:    logger.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client != nil {
		return c, nil
	}

	if len(c.addrs) == 0 || c.addrs[0] == "" {
		return nil, ErrAddrMissing
	}

	c.client = redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    c.addrs,
		DB:       c.db,
		Username: c.userCredential,
		Password: c.passCredential,
	})

	return c, nil
}

// Ping returns the Redis server liveliness response.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the server connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) idKey(id uuid.UUID) string {
	return c.keyPrefix + ":uuid:" + id.String()
}

func (c *Cache) nameKey(name string) string {
	return c.keyPrefix + ":name:" + profile.NameKey(name)
}

func (c *Cache) fail(ctx context.Context, op string, err error) {
	cache.ObserveError(cacheName, op)
	c.logger.WarnWithContext(ctx, "profile cache request failed",
		zap.String("cache", cacheName),
		zap.String("op", op),
		zap.Error(err),
	)
}

func (c *Cache) Put(ctx context.Context, p profile.Profile) {
	c.PutAll(ctx, []profile.Profile{p})
}

func (c *Cache) PutAll(ctx context.Context, profiles []profile.Profile) {
	cache.ObserveRequest(cacheName, cache.OpPut)
	if len(profiles) == 0 {
		return
	}

	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range profiles {
			pipe.Set(ctx, c.idKey(p.ID), p.Name, c.ttl)
			pipe.Set(ctx, c.nameKey(p.Name), p.ID.String(), c.ttl)
		}
		return nil
	})
	if err != nil {
		c.fail(ctx, cache.OpPut, err)
	}
}

func (c *Cache) GetIfPresent(ctx context.Context, id uuid.UUID) (profile.Profile, bool) {
	return cache.GetOne(ctx, c, id)
}

func (c *Cache) GetAllPresent(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]profile.Profile {
	cache.ObserveRequest(cacheName, cache.OpGetAll)

	found, err := c.getAll(ctx, ids)
	if err != nil {
		c.fail(ctx, cache.OpGetAll, err)
		return map[uuid.UUID]profile.Profile{}
	}
	cache.ObserveHits(cacheName, len(found))
	return found
}

func (c *Cache) getAll(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]profile.Profile, error) {
	found := make(map[uuid.UUID]profile.Profile, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, c.idKey(id))
	}

	values, err := c.getStrings(ctx, keys)
	if err != nil {
		return nil, err
	}
	for i, name := range values {
		if name != "" {
			found[ids[i]] = profile.Profile{ID: ids[i], Name: name}
		}
	}
	return found, nil
}

// getStrings reads keys in one pipeline. Missing keys come back empty.
func (c *Cache) getStrings(ctx context.Context, keys []string) ([]string, error) {
	cmds := make([]*redis.StringCmd, len(keys))
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			cmds[i] = pipe.Get(ctx, key)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	values := make([]string, len(keys))
	for i, cmd := range cmds {
		value, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func (c *Cache) GetIfPresentByName(ctx context.Context, name string) (profile.Profile, bool) {
	p, ok := c.GetAllPresentByName(ctx, []string{name})[name]
	return p, ok
}

func (c *Cache) GetAllPresentByName(ctx context.Context, names []string) map[string]profile.Profile {
	cache.ObserveRequest(cacheName, cache.OpByName)

	found := make(map[string]profile.Profile, len(names))
	if len(names) == 0 {
		return found
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, c.nameKey(name))
	}

	values, err := c.getStrings(ctx, keys)
	if err != nil {
		c.fail(ctx, cache.OpByName, err)
		return found
	}

	owners := make(map[string]uuid.UUID, len(names))
	ids := make([]uuid.UUID, 0, len(names))
	for i, raw := range values {
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.logger.WarnWithContext(ctx, "ignoring corrupt name entry", zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		owners[names[i]] = id
		ids = append(ids, id)
	}

	current, err := c.getAll(ctx, ids)
	if err != nil {
		c.fail(ctx, cache.OpByName, err)
		return found
	}
	for name, id := range owners {
		if p, ok := current[id]; ok && profile.NameKey(p.Name) == profile.NameKey(name) {
			found[name] = p
		}
	}

	cache.ObserveHits(cacheName, len(found))
	return found
}

package resolve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/enginehub/squirrelid/internal/config"
	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/cache/lru"
	"github.com/enginehub/squirrelid/pkg/cache/memory"
	"github.com/enginehub/squirrelid/pkg/cache/mysql"
	"github.com/enginehub/squirrelid/pkg/cache/postgres"
	"github.com/enginehub/squirrelid/pkg/cache/redis"
	"github.com/enginehub/squirrelid/pkg/cache/sqlcommon"
	"github.com/enginehub/squirrelid/pkg/cache/sqlite"
	"github.com/enginehub/squirrelid/pkg/logger"
)

// newCache opens the configured cache. The returned func releases it and is never nil.
func newCache(ctx context.Context, cfg *config.Config, log logger.Logger) (cache.Cache, func(), error) {
	noop := func() {}

	engine, err := config.NewCacheEngine(cfg.Cache.Engine)
	if err != nil {
		return nil, noop, err
	}

	switch engine {
	case config.None:
		return nil, noop, nil
	case config.Memory:
		return memory.New(), noop, nil
	case config.LRU:
		c, err := lru.New(lru.WithMaxSize(cfg.Cache.MaxSize), lru.WithTTL(cfg.Cache.TTL))
		if err != nil {
			return nil, noop, err
		}
		return c, c.Close, nil
	case config.Redis:
		c, err := redis.New(
			redis.WithAddr(cfg.Cache.URI),
			redis.WithUserCredential(cfg.Cache.Username),
			redis.WithPassCredential(cfg.Cache.Password),
			redis.WithTTL(cfg.Cache.TTL),
			redis.WithLogger(log),
		)
		if err != nil {
			return nil, noop, err
		}
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, noop, fmt.Errorf("connect to redis cache: %w", err)
		}
		return c, func() {
			if err := c.Close(); err != nil {
				log.Warn("failed to close redis cache", zap.Error(err))
			}
		}, nil
	}

	sqlCfg := sqlcommon.NewConfig(sqlOptions(cfg, log)...)
	switch engine {
	case config.SQLite:
		c, err := sqlite.New(ctx, cfg.Cache.URI, sqlCfg)
		if err != nil {
			return nil, noop, err
		}
		return c, c.Close, nil
	case config.MySQL:
		c, err := mysql.New(ctx, cfg.Cache.URI, sqlCfg)
		if err != nil {
			return nil, noop, err
		}
		return c, c.Close, nil
	case config.Postgres:
		c, err := postgres.New(ctx, cfg.Cache.URI, sqlCfg)
		if err != nil {
			return nil, noop, err
		}
		return c, c.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported cache engine '%s'", engine)
	}
}

func sqlOptions(cfg *config.Config, log logger.Logger) []sqlcommon.CacheOption {
	opts := []sqlcommon.CacheOption{
		sqlcommon.WithLogger(log),
		sqlcommon.WithUsername(cfg.Cache.Username),
		sqlcommon.WithPassword(cfg.Cache.Password),
		sqlcommon.WithConnectTimeout(cfg.Cache.ConnectTimeout),
	}
	if cfg.Cache.AutoMigrate {
		opts = append(opts, sqlcommon.WithAutoMigrate())
	}
	if cfg.Cache.Metrics {
		opts = append(opts, sqlcommon.WithMetrics())
	}
	return opts
}

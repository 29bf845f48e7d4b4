// Package config contains all knobs and defaults used to configure the
// squirrelid command line tool.
package config

import (
	"fmt"
	"time"

	"github.com/enginehub/squirrelid/pkg/cache/lru"
	"github.com/enginehub/squirrelid/pkg/resolver"
	"github.com/enginehub/squirrelid/pkg/resolver/remote"
)

const (
	DefaultCacheMaxSize     = lru.DefaultMaxSize
	DefaultParallelWorkers  = 2
	DefaultProfilesPerJob   = resolver.DefaultProfilesPerJob
	DefaultTimeout          = 1 * time.Minute
	DefaultCacheConnTimeout = 1 * time.Minute
)

type LogConfig struct {
	// Format is the log format to use in the log output (e.g. 'text' or 'json')
	Format string

	// Level is the log level to use in the log output (e.g. 'none', 'debug', or 'info')
	Level string
}

// CacheConfig selects and configures the profile cache.
type CacheConfig struct {
	Engine   string
	URI      string
	Username string
	Password string

	// MaxSize bounds the number of profiles kept by the 'lru' engine.
	MaxSize int64

	// TTL expires entries of the 'lru' and 'redis' engines. Zero keeps entries until evicted.
	TTL time.Duration

	// ConnectTimeout bounds how long to wait for a SQL database to come up.
	ConnectTimeout time.Duration

	// AutoMigrate migrates the mysql and postgres schemas on startup. sqlite always migrates.
	AutoMigrate bool

	// Metrics enables export of the SQL connection pool metrics.
	Metrics bool
}

type RemoteConfig struct {
	Agent          string
	ProfilesURL    string
	NameHistoryURL string
	MaxRetries     int
	RetryDelay     time.Duration
}

type ParallelConfig struct {
	Workers        int
	ProfilesPerJob int
}

type NamesConfig struct {
	// CaseSensitive makes names differing only in case distinct keys when merging lookups.
	CaseSensitive bool
}

type Config struct {
	Log      LogConfig
	Cache    CacheConfig
	Remote   RemoteConfig
	Parallel ParallelConfig
	Names    NamesConfig

	// Timeout bounds a whole command run.
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Cache: CacheConfig{
			Engine:         Memory.String(),
			MaxSize:        DefaultCacheMaxSize,
			ConnectTimeout: DefaultCacheConnTimeout,
		},
		Remote: RemoteConfig{
			Agent:      remote.DefaultAgent,
			MaxRetries: remote.DefaultMaxRetries,
			RetryDelay: remote.DefaultRetryDelay,
		},
		Parallel: ParallelConfig{
			Workers:        DefaultParallelWorkers,
			ProfilesPerJob: DefaultProfilesPerJob,
		},
		Timeout: DefaultTimeout,
	}
}

// Verify checks the config for values that would fail later at runtime.
func (cfg *Config) Verify() error {
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("config 'log.format' must be one of ['text', 'json']")
	}

	switch cfg.Log.Level {
	case "none", "debug", "info", "warn", "error", "panic", "fatal":
	default:
		return fmt.Errorf(
			"config 'log.level' must be one of ['none', 'debug', 'info', 'warn', 'error', 'panic', 'fatal']",
		)
	}

	engine, err := NewCacheEngine(cfg.Cache.Engine)
	if err != nil {
		return fmt.Errorf("config 'cache.engine': %w", err)
	}

	if engine.NeedsURI() && cfg.Cache.URI == "" {
		return fmt.Errorf("config 'cache.uri' is required for the '%s' cache engine", engine)
	}

	if cfg.Cache.MaxSize <= 0 {
		return fmt.Errorf("config 'cache.maxSize' must be greater than 0, got %d", cfg.Cache.MaxSize)
	}

	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("config 'cache.ttl' cannot be negative")
	}

	if cfg.Remote.MaxRetries < 0 {
		return fmt.Errorf("config 'remote.maxRetries' cannot be negative")
	}

	if cfg.Remote.RetryDelay <= 0 {
		return fmt.Errorf("config 'remote.retryDelay' must be greater than 0")
	}

	if cfg.Parallel.Workers < 1 {
		return fmt.Errorf("config 'parallel.workers' must be at least 1, got %d", cfg.Parallel.Workers)
	}

	if cfg.Parallel.ProfilesPerJob < 1 {
		return fmt.Errorf("config 'parallel.profilesPerJob' must be at least 1, got %d", cfg.Parallel.ProfilesPerJob)
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("config 'timeout' must be greater than 0")
	}

	return nil
}

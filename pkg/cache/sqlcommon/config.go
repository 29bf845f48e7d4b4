package sqlcommon

import (
	"time"

	"github.com/enginehub/squirrelid/pkg/logger"
)

const DefaultConnectTimeout = 1 * time.Minute

// Config defines the configuration parameters
// for setting up and managing a sql connection.
type Config struct {
	Username string
	Password string
	Logger   logger.Logger

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration

	// ConnectTimeout bounds how long New waits for the database to answer a ping.
	ConnectTimeout time.Duration

	// AutoMigrate applies pending schema migrations when the cache is opened.
	AutoMigrate bool

	// VerboseMigration makes goose report every applied migration.
	VerboseMigration bool

	ExportMetrics bool
}

// CacheOption defines a function type
// used for configuring a Config object.
type CacheOption func(*Config)

// WithUsername returns a CacheOption that sets the username in the Config.
func WithUsername(username string) CacheOption {
	return func(config *Config) {
		config.Username = username
	}
}

// WithPassword returns a CacheOption that sets the password in the Config.
func WithPassword(password string) CacheOption {
	return func(config *Config) {
		config.Password = password
	}
}

// WithLogger returns a CacheOption that sets the Logger in the Config.
func WithLogger(l logger.Logger) CacheOption {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// WithMaxOpenConns returns a CacheOption that sets the
// maximum number of open connections in the Config.
func WithMaxOpenConns(c int) CacheOption {
	return func(cfg *Config) {
		cfg.MaxOpenConns = c
	}
}

// WithMaxIdleConns returns a CacheOption that sets the
// maximum number of idle connections in the Config.
func WithMaxIdleConns(c int) CacheOption {
	return func(cfg *Config) {
		cfg.MaxIdleConns = c
	}
}

func WithConnMaxIdleTime(d time.Duration) CacheOption {
	return func(cfg *Config) {
		cfg.ConnMaxIdleTime = d
	}
}

func WithConnMaxLifetime(d time.Duration) CacheOption {
	return func(cfg *Config) {
		cfg.ConnMaxLifetime = d
	}
}

func WithConnectTimeout(d time.Duration) CacheOption {
	return func(cfg *Config) {
		cfg.ConnectTimeout = d
	}
}

// WithAutoMigrate returns a CacheOption that runs the schema migrations on open.
func WithAutoMigrate() CacheOption {
	return func(cfg *Config) {
		cfg.AutoMigrate = true
	}
}

func WithVerboseMigration() CacheOption {
	return func(cfg *Config) {
		cfg.VerboseMigration = true
	}
}

// WithMetrics returns a CacheOption that
// enables the export of connection pool metrics.
func WithMetrics() CacheOption {
	return func(cfg *Config) {
		cfg.ExportMetrics = true
	}
}

// NewConfig creates a new Config instance with default values
// and applies any provided CacheOption modifications.
func NewConfig(opts ...CacheOption) *Config {
	cfg := &Config{}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoopLogger()
	}

	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}

	return cfg
}

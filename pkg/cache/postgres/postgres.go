// Package postgres provides a profile cache stored in a PostgreSQL table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver.
	"github.com/prometheus/client_golang/prometheus"

	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/cache/migrate"
	"github.com/enginehub/squirrelid/pkg/cache/sqlcommon"
)

const engine = "postgres"

// Cache is a PostgreSQL backed [cache.NameCache].
type Cache struct {
	*sqlcommon.Cache

	db               *sql.DB
	dbStatsCollector prometheus.Collector
}

var _ cache.NameCache = (*Cache)(nil)

// New connects to the database at uri, waiting for it to come up.
func New(ctx context.Context, uri string, cfg *sqlcommon.Config) (*Cache, error) {
	db, err := open(ctx, uri, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := migrate.Run(ctx, db, migrate.Config{Engine: engine, Verbose: cfg.VerboseMigration, Logger: cfg.Logger}); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate postgres cache: %w", err)
		}
	}

	collector, err := sqlcommon.RegisterDBStats(db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	stbl := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(db)
	dbInfo := sqlcommon.NewDBInfo(db, stbl, upsert, "LOWER(name)", HandleSQLError)

	return &Cache{
		Cache:            sqlcommon.NewCache(engine, dbInfo, cfg.Logger, false),
		db:               db,
		dbStatsCollector: collector,
	}, nil
}

// Migrate applies the schema migrations up to targetVersion, zero meaning all.
func Migrate(ctx context.Context, uri string, cfg *sqlcommon.Config, targetVersion int64) error {
	db, err := open(ctx, uri, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return migrate.Run(ctx, db, migrate.Config{
		Engine:        engine,
		TargetVersion: targetVersion,
		Verbose:       cfg.VerboseMigration,
		Logger:        cfg.Logger,
	})
}

// PrepareURI applies the credentials of cfg to uri. Credentials missing from
// cfg are kept from uri.
func PrepareURI(uri string, cfg *sqlcommon.Config) (string, error) {
	if cfg.Username == "" && cfg.Password == "" {
		return uri, nil
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse postgres connection uri: %w", err)
	}

	username := ""
	if cfg.Username != "" {
		username = cfg.Username
	} else if parsed.User != nil {
		username = parsed.User.Username()
	}

	switch {
	case cfg.Password != "":
		parsed.User = url.UserPassword(username, cfg.Password)
	case parsed.User != nil:
		if password, ok := parsed.User.Password(); ok {
			parsed.User = url.UserPassword(username, password)
		} else {
			parsed.User = url.User(username)
		}
	default:
		parsed.User = url.User(username)
	}

	return parsed.String(), nil
}

func open(ctx context.Context, uri string, cfg *sqlcommon.Config) (*sql.DB, error) {
	uri, err := PrepareURI(uri, cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("initialize postgres connection: %w", err)
	}
	sqlcommon.ConfigureDB(db, cfg)

	if err := sqlcommon.WaitForDB(ctx, db, cfg); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize postgres connection: %w", err)
	}
	return db, nil
}

func upsert(stbl sq.StatementBuilderType) sq.InsertBuilder {
	return stbl.
		Insert(sqlcommon.TableName).
		Columns("uuid", "name").
		Suffix("ON CONFLICT (uuid) DO UPDATE SET name = EXCLUDED.name")
}

// Close releases the connection pool.
func (c *Cache) Close() {
	if c.dbStatsCollector != nil {
		prometheus.Unregister(c.dbStatsCollector)
	}
	c.db.Close()
}

// HandleSQLError processes an SQL error and converts it into a more
// specific error type based on the nature of the SQL error.
func HandleSQLError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22001" {
		return fmt.Errorf("name longer than the cache column: %w", err)
	}

	return sqlcommon.HandleSQLError(err)
}

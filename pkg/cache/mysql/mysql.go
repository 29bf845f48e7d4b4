// Package mysql provides a profile cache stored in a MySQL table.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/cache/migrate"
	"github.com/enginehub/squirrelid/pkg/cache/sqlcommon"
)

const engine = "mysql"

// Cache is a MySQL backed [cache.NameCache]. Names are unique in the table,
// so storing a known name under a new ID replaces the older row.
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
			return nil, fmt.Errorf("migrate mysql cache: %w", err)
		}
	}

	collector, err := sqlcommon.RegisterDBStats(db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	stbl := sq.StatementBuilder.RunWith(db)
	dbInfo := sqlcommon.NewDBInfo(db, stbl, upsert, "name", HandleSQLError)

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

// PrepareDSN applies the credentials of cfg to uri.
func PrepareDSN(uri string, cfg *sqlcommon.Config) (string, error) {
	if cfg.Username == "" && cfg.Password == "" {
		return uri, nil
	}

	dsnCfg, err := mysql.ParseDSN(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse mysql connection dsn: %w", err)
	}

	if cfg.Username != "" {
		dsnCfg.User = cfg.Username
	}
	if cfg.Password != "" {
		dsnCfg.Passwd = cfg.Password
	}

	return dsnCfg.FormatDSN(), nil
}

func open(ctx context.Context, uri string, cfg *sqlcommon.Config) (*sql.DB, error) {
	uri, err := PrepareDSN(uri, cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mysql connection: %w", err)
	}
	sqlcommon.ConfigureDB(db, cfg)

	if err := sqlcommon.WaitForDB(ctx, db, cfg); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize mysql connection: %w", err)
	}
	return db, nil
}

func upsert(stbl sq.StatementBuilderType) sq.InsertBuilder {
	return stbl.
		Replace(sqlcommon.TableName).
		Columns("uuid", "name")
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
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1406 {
		return fmt.Errorf("name longer than the cache column: %w", err)
	}

	return sqlcommon.HandleSQLError(err)
}

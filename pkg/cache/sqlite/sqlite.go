// Package sqlite provides a profile cache stored in a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/prometheus/client_golang/prometheus"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/cache/migrate"
	"github.com/enginehub/squirrelid/pkg/cache/sqlcommon"
)

const engine = "sqlite"

// Cache is a SQLite backed [cache.NameCache]. It holds a single connection and
// runs one statement at a time per instance.
type Cache struct {
	*sqlcommon.Cache

	db               *sql.DB
	dbStatsCollector prometheus.Collector
}

var _ cache.NameCache = (*Cache)(nil)

// PrepareDSN prepares a raw DSN for use with SQLite, specifying defaults for journal mode and busy timeout.
func PrepareDSN(uri string) (string, error) {
	query := url.Values{}
	var err error

	if i := strings.Index(uri, "?"); i != -1 {
		query, err = url.ParseQuery(uri[i+1:])
		if err != nil {
			return uri, fmt.Errorf("error parsing dsn: %w", err)
		}

		uri = uri[:i]
	}

	foundJournalMode := false
	foundBusyTimeout := false
	for _, val := range query["_pragma"] {
		if strings.HasPrefix(val, "journal_mode") {
			foundJournalMode = true
		} else if strings.HasPrefix(val, "busy_timeout") {
			foundBusyTimeout = true
		}
	}

	if !foundJournalMode {
		query.Add("_pragma", "journal_mode(WAL)")
	}
	if !foundBusyTimeout {
		query.Add("_pragma", "busy_timeout(100)")
	}

	uri += "?" + query.Encode()

	return uri, nil
}

// New opens the cache stored at uri and brings its schema up to date.
func New(ctx context.Context, uri string, cfg *sqlcommon.Config) (*Cache, error) {
	db, err := open(ctx, uri, cfg)
	if err != nil {
		return nil, err
	}

	if err := migrate.Run(ctx, db, migrate.Config{Engine: engine, Verbose: cfg.VerboseMigration, Logger: cfg.Logger}); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite cache: %w", err)
	}

	collector, err := sqlcommon.RegisterDBStats(db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	stbl := sq.StatementBuilder.RunWith(db)
	dbInfo := sqlcommon.NewDBInfo(db, stbl, upsert, "LOWER(name)", HandleSQLError)

	return &Cache{
		Cache:            sqlcommon.NewCache(engine, dbInfo, cfg.Logger, true),
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

func open(ctx context.Context, uri string, cfg *sqlcommon.Config) (*sql.DB, error) {
	uri, err := PrepareDSN(uri)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := sqlcommon.WaitForDB(ctx, db, cfg); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize sqlite connection: %w", err)
	}
	return db, nil
}

func upsert(stbl sq.StatementBuilderType) sq.InsertBuilder {
	return stbl.
		Insert(sqlcommon.TableName).
		Columns("uuid", "name").
		Suffix("ON CONFLICT(uuid) DO UPDATE SET name = excluded.name")
}

// Close releases the database handle.
func (c *Cache) Close() {
	if c.dbStatsCollector != nil {
		prometheus.Unregister(c.dbStatsCollector)
	}
	c.db.Close()
}

// HandleSQLError processes an SQL error and converts it into a more
// specific error type based on the nature of the SQL error.
func HandleSQLError(err error) error {
	if isBusyError(err) {
		return fmt.Errorf("sqlite database is locked: %w", err)
	}

	return sqlcommon.HandleSQLError(err)
}

var busyErrors = map[int]struct{}{
	sqlite3.SQLITE_BUSY_RECOVERY:      {},
	sqlite3.SQLITE_BUSY_SNAPSHOT:      {},
	sqlite3.SQLITE_BUSY_TIMEOUT:       {},
	sqlite3.SQLITE_BUSY:               {},
	sqlite3.SQLITE_LOCKED_SHAREDCACHE: {},
	sqlite3.SQLITE_LOCKED:             {},
}

func isBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	_, ok := busyErrors[sqliteErr.Code()]
	return ok
}

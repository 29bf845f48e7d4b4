// Package sqlcommon holds the query logic shared by the SQL backed profile caches.
package sqlcommon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/enginehub/squirrelid/internal/build"
	"github.com/enginehub/squirrelid/internal/utils"
	"github.com/enginehub/squirrelid/pkg/profile"
)

const (
	TableName = "uuid_cache"

	// MaxParamsPerQuery caps the bind parameters of a single statement.
	MaxParamsPerQuery = 500
)

var ErrNotFound = errors.New("not found")

type errorHandlerFn func(error) error

// UpsertFn turns a plain multi-row insert into the engine's insert-or-replace statement.
type UpsertFn func(sq.StatementBuilderType) sq.InsertBuilder

// DBInfo bundles what the shared queries need to know about an engine.
type DBInfo struct {
	db             *sql.DB
	stbl           sq.StatementBuilderType
	upsert         UpsertFn
	nameColumn     string
	HandleSQLError errorHandlerFn
}

// NewDBInfo constructs a [DBInfo] object. nameColumn is the expression compared
// against lower-cased names, for example "LOWER(name)".
func NewDBInfo(db *sql.DB, stbl sq.StatementBuilderType, upsert UpsertFn, nameColumn string, errorHandler errorHandlerFn) *DBInfo {
	return &DBInfo{
		db:             db,
		stbl:           stbl,
		upsert:         upsert,
		nameColumn:     nameColumn,
		HandleSQLError: errorHandler,
	}
}

// HandleSQLError processes an SQL error and converts it into a more
// specific error type based on the nature of the SQL error.
func HandleSQLError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	return fmt.Errorf("sql error: %w", err)
}

// ConfigureDB applies the pool settings of cfg to db.
func ConfigureDB(db *sql.DB, cfg *Config) {
	if cfg.MaxOpenConns != 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns != 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.ConnMaxIdleTime != 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if cfg.ConnMaxLifetime != 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// WaitForDB pings db with exponential backoff until it answers or cfg.ConnectTimeout elapses.
func WaitForDB(ctx context.Context, db *sql.DB, cfg *Config) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = cfg.ConnectTimeout
	attempt := 1
	err := backoff.Retry(func() error {
		err := db.PingContext(ctx)
		if err != nil {
			cfg.Logger.Info("waiting for database", zap.Int("attempt", attempt))
			attempt++
			return err
		}
		return nil
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	return nil
}

// RegisterDBStats exports the connection pool stats of db when cfg asks for it.
// The returned collector is nil when metrics are disabled.
func RegisterDBStats(db *sql.DB, cfg *Config) (prometheus.Collector, error) {
	if !cfg.ExportMetrics {
		return nil, nil
	}

	collector := collectors.NewDBStatsCollector(db, build.ProjectName)
	if err := prometheus.Register(collector); err != nil {
		return nil, fmt.Errorf("initialize metrics: %w", err)
	}
	return collector, nil
}

// PutAll upserts profiles in one transaction. A name belongs to one ID at a
// time: rows holding a written name under another ID are removed. Within
// profiles the last write for an ID, and then for a name, wins.
func PutAll(ctx context.Context, dbInfo *DBInfo, profiles []profile.Profile) (err error) {
	rows, displaced := lastWriteWins(profiles)

	txn, err := dbInfo.db.BeginTx(ctx, nil)
	if err != nil {
		return dbInfo.HandleSQLError(err)
	}
	defer func() {
		if err != nil {
			_ = txn.Rollback()
		}
	}()
	stbl := dbInfo.stbl.RunWith(txn)

	for _, chunk := range utils.Chunk(displaced, MaxParamsPerQuery) {
		_, err = stbl.Delete(TableName).Where(sq.Eq{"uuid": idStrings(chunk)}).ExecContext(ctx)
		if err != nil {
			return dbInfo.HandleSQLError(err)
		}
	}

	for _, chunk := range utils.Chunk(rows, MaxParamsPerQuery/2) {
		names := make([]string, 0, len(chunk))
		insert := dbInfo.upsert(stbl)
		for _, p := range chunk {
			names = append(names, profile.NameKey(p.Name))
			insert = insert.Values(p.ID.String(), p.Name)
		}

		_, err = stbl.Delete(TableName).Where(sq.Eq{dbInfo.nameColumn: names}).ExecContext(ctx)
		if err != nil {
			return dbInfo.HandleSQLError(err)
		}
		if _, err = insert.ExecContext(ctx); err != nil {
			return dbInfo.HandleSQLError(err)
		}
	}

	if err = txn.Commit(); err != nil {
		return dbInfo.HandleSQLError(err)
	}
	return nil
}

// GetAllPresent returns the stored profiles for ids.
func GetAllPresent(ctx context.Context, dbInfo *DBInfo, ids []uuid.UUID) (map[uuid.UUID]profile.Profile, error) {
	found := make(map[uuid.UUID]profile.Profile, len(ids))
	for _, chunk := range utils.Chunk(utils.Uniq(ids), MaxParamsPerQuery) {
		err := query(ctx, dbInfo, sq.Eq{"uuid": idStrings(chunk)}, func(p profile.Profile) {
			found[p.ID] = p
		})
		if err != nil {
			return nil, err
		}
	}
	return found, nil
}

// GetAllPresentByName returns the stored profiles keyed by the requested names.
func GetAllPresentByName(ctx context.Context, dbInfo *DBInfo, names []string) (map[string]profile.Profile, error) {
	requested := make(map[string][]string, len(names))
	for _, name := range names {
		key := profile.NameKey(name)
		requested[key] = append(requested[key], name)
	}
	keys := make([]string, 0, len(requested))
	for key := range requested {
		keys = append(keys, key)
	}

	found := make(map[string]profile.Profile, len(names))
	for _, chunk := range utils.Chunk(keys, MaxParamsPerQuery) {
		err := query(ctx, dbInfo, sq.Eq{dbInfo.nameColumn: chunk}, func(p profile.Profile) {
			for _, name := range requested[profile.NameKey(p.Name)] {
				if _, ok := found[name]; !ok {
					found[name] = p
				}
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return found, nil
}

func query(ctx context.Context, dbInfo *DBInfo, where sq.Sqlizer, fn func(profile.Profile)) error {
	rows, err := dbInfo.stbl.
		Select("uuid", "name").
		From(TableName).
		Where(where).
		QueryContext(ctx)
	if err != nil {
		return dbInfo.HandleSQLError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var rawID, name string
		if err := rows.Scan(&rawID, &name); err != nil {
			return dbInfo.HandleSQLError(err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return fmt.Errorf("corrupt row %q: %w", rawID, err)
		}
		fn(profile.Profile{ID: id, Name: name})
	}
	if err := rows.Err(); err != nil {
		return dbInfo.HandleSQLError(err)
	}
	return nil
}

// lastWriteWins keeps the last profile per ID, then the last per name. It also
// returns the IDs whose latest profile lost its name to a later one.
func lastWriteWins(profiles []profile.Profile) ([]profile.Profile, []uuid.UUID) {
	lastByID := make(map[uuid.UUID]int, len(profiles))
	lastByName := make(map[string]int, len(profiles))
	for i, p := range profiles {
		lastByID[p.ID] = i
		lastByName[profile.NameKey(p.Name)] = i
	}

	rows := make([]profile.Profile, 0, len(lastByID))
	var displaced []uuid.UUID
	for i, p := range profiles {
		if lastByID[p.ID] != i {
			continue
		}
		if lastByName[profile.NameKey(p.Name)] != i {
			displaced = append(displaced, p.ID)
			continue
		}
		rows = append(rows, p)
	}
	return rows, displaced
}

func idStrings(ids []uuid.UUID) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	return keys
}

// Package migrate applies the embedded schema migrations of the SQL profile caches.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/enginehub/squirrelid/assets"
	"github.com/enginehub/squirrelid/pkg/logger"
)

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

var migrationDirs = map[string]string{
	"sqlite":   assets.SQLiteMigrationDir,
	"mysql":    assets.MySQLMigrationDir,
	"postgres": assets.PostgresMigrationDir,
}

// Config contains the configuration needed for running migrations.
type Config struct {
	// Engine is one of sqlite, mysql or postgres.
	Engine string

	// TargetVersion is the schema version to migrate to. Zero applies every migration.
	TargetVersion int64

	Verbose bool
	Logger  logger.Logger
}

// Run migrates db to cfg.TargetVersion, downgrading when the database is ahead.
func Run(ctx context.Context, db *sql.DB, cfg Config) error {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNoopLogger()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	dir, err := setup(cfg.Engine, log, cfg.Verbose)
	if err != nil {
		return err
	}

	currentVersion, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get %s db version: %w", cfg.Engine, err)
	}
	log.Info("current schema version", zap.String("engine", cfg.Engine), zap.Int64("version", currentVersion))

	switch {
	case cfg.TargetVersion == 0:
		if err := goose.UpContext(ctx, db, dir); err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", cfg.Engine, err)
		}
	case cfg.TargetVersion < currentVersion:
		if err := goose.DownToContext(ctx, db, dir, cfg.TargetVersion); err != nil {
			return fmt.Errorf("failed to run %s migrations down to %d: %w", cfg.Engine, cfg.TargetVersion, err)
		}
	case cfg.TargetVersion > currentVersion:
		if err := goose.UpToContext(ctx, db, dir, cfg.TargetVersion); err != nil {
			return fmt.Errorf("failed to run %s migrations up to %d: %w", cfg.Engine, cfg.TargetVersion, err)
		}
	default:
		log.Info("schema is up to date", zap.String("engine", cfg.Engine))
		return nil
	}

	log.Info("migration done", zap.String("engine", cfg.Engine))
	return nil
}

// Version returns the schema version recorded in db.
func Version(ctx context.Context, db *sql.DB, engine string) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if _, err := setup(engine, logger.NewNoopLogger(), false); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}

func setup(engine string, log logger.Logger, verbose bool) (string, error) {
	dir, ok := migrationDirs[engine]
	if !ok {
		return "", fmt.Errorf("no migrations for engine %q", engine)
	}

	goose.SetLogger(&gooseLogger{log})
	goose.SetVerbose(verbose)
	goose.SetBaseFS(assets.EmbedMigrations)
	if err := goose.SetDialect(engine); err != nil {
		return "", fmt.Errorf("failed to set %s dialect: %w", engine, err)
	}
	return dir, nil
}

type gooseLogger struct {
	logger.Logger
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.Info(fmt.Sprintf(format, v...))
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.Fatal(fmt.Sprintf(format, v...))
}

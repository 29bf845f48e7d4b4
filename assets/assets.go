package assets

import "embed"

const (
	SQLiteMigrationDir   = "migrations/sqlite"
	MySQLMigrationDir    = "migrations/mysql"
	PostgresMigrationDir = "migrations/postgres"
)

//go:embed migrations/*
var EmbedMigrations embed.FS

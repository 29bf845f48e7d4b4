package main

import (
	"os"

	"github.com/enginehub/squirrelid/cmd"
	"github.com/enginehub/squirrelid/cmd/migrate"
	"github.com/enginehub/squirrelid/cmd/resolve"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	resolveCmd := resolve.NewResolveCommand()
	rootCmd.AddCommand(resolveCmd)

	migrateCmd := migrate.NewMigrateCommand()
	rootCmd.AddCommand(migrateCmd)

	versionCmd := cmd.NewVersionCommand()
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

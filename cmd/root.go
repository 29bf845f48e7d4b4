// Package cmd contains all the commands included in the binary file.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	cacheEngineFlag = "cache-engine"
	cacheEngineConf = "cache.engine"
	cacheURIFlag    = "cache-uri"
	cacheURIConf    = "cache.uri"
)

// NewRootCommand enables all children commands to read flags from CLI flags, environment variables prefixed with SQUIRRELID, or config.yaml (in that order).
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("SQUIRRELID")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configPaths := []string{"/etc/squirrelid", "$HOME/.squirrelid", "."}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	viper.SetDefault(cacheEngineFlag, "")
	viper.SetDefault(cacheURIFlag, "")
	err := viper.ReadInConfig()
	if err == nil {
		viper.SetDefault(cacheEngineFlag, viper.Get(cacheEngineConf))
		viper.SetDefault(cacheURIFlag, viper.Get(cacheURIConf))
	}

	return &cobra.Command{
		Use:   "squirrelid",
		Short: "Resolve player names to UUIDs and back",
		Long: `Resolve player names to UUIDs and back.

Lookups go through a cache first and only ask the remote profile service for
what is missing, in batches, with retries.`,
		SilenceUsage: true,
	}
}

package migrate

import (
	"github.com/spf13/cobra"

	"github.com/enginehub/squirrelid/cmd/util"
)

// bindRunFlags binds the cobra cmd flags to the equivalent config value being managed
// by viper. This bridges the config between cobra flags and viper flags.
func bindRunFlags(command *cobra.Command, _ []string) {
	flags := command.Flags()

	util.MustBindPFlag(cacheEngineFlag, flags.Lookup(cacheEngineFlag))
	util.MustBindPFlag(cacheURIFlag, flags.Lookup(cacheURIFlag))
	util.MustBindPFlag(cacheUsernameFlag, flags.Lookup(cacheUsernameFlag))
	util.MustBindPFlag(cachePasswordFlag, flags.Lookup(cachePasswordFlag))
	util.MustBindPFlag(versionFlag, flags.Lookup(versionFlag))
	util.MustBindPFlag(timeoutFlag, flags.Lookup(timeoutFlag))
	util.MustBindPFlag(verboseMigrationFlag, flags.Lookup(verboseMigrationFlag))

	util.MustBindPFlag(logFormatFlag, flags.Lookup(logFormatFlag))
	util.MustBindEnv(logFormatFlag, "SQUIRRELID_LOG_FORMAT")
	util.MustBindPFlag(logLevelFlag, flags.Lookup(logLevelFlag))
	util.MustBindEnv(logLevelFlag, "SQUIRRELID_LOG_LEVEL")
}

package resolve

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/enginehub/squirrelid/cmd/util"
	"github.com/enginehub/squirrelid/internal/config"
)

// bindRunFlagsFunc binds the cobra cmd flags to the equivalent config value being managed
// by viper. This bridges the config between cobra flags and viper flags.
func bindRunFlagsFunc(flags *pflag.FlagSet) func(*cobra.Command, []string) {
	return func(command *cobra.Command, args []string) {
		util.MustBindPFlag("log.format", flags.Lookup("log-format"))
		util.MustBindEnv("log.format", "SQUIRRELID_LOG_FORMAT")

		util.MustBindPFlag("log.level", flags.Lookup("log-level"))
		util.MustBindEnv("log.level", "SQUIRRELID_LOG_LEVEL")

		util.MustBindPFlag("cache.engine", flags.Lookup("cache-engine"))
		util.MustBindEnv("cache.engine", "SQUIRRELID_CACHE_ENGINE")

		util.MustBindPFlag("cache.uri", flags.Lookup("cache-uri"))
		util.MustBindEnv("cache.uri", "SQUIRRELID_CACHE_URI")

		util.MustBindPFlag("cache.username", flags.Lookup("cache-username"))
		util.MustBindEnv("cache.username", "SQUIRRELID_CACHE_USERNAME")

		util.MustBindPFlag("cache.password", flags.Lookup("cache-password"))
		util.MustBindEnv("cache.password", "SQUIRRELID_CACHE_PASSWORD")

		util.MustBindPFlag("cache.maxSize", flags.Lookup("cache-max-size"))
		util.MustBindEnv("cache.maxSize", "SQUIRRELID_CACHE_MAX_SIZE", "SQUIRRELID_CACHE_MAXSIZE")

		util.MustBindPFlag("cache.ttl", flags.Lookup("cache-ttl"))
		util.MustBindEnv("cache.ttl", "SQUIRRELID_CACHE_TTL")

		util.MustBindPFlag("cache.connectTimeout", flags.Lookup("cache-connect-timeout"))
		util.MustBindEnv("cache.connectTimeout", "SQUIRRELID_CACHE_CONNECT_TIMEOUT", "SQUIRRELID_CACHE_CONNECTTIMEOUT")

		util.MustBindPFlag("cache.autoMigrate", flags.Lookup("cache-auto-migrate"))
		util.MustBindEnv("cache.autoMigrate", "SQUIRRELID_CACHE_AUTO_MIGRATE", "SQUIRRELID_CACHE_AUTOMIGRATE")

		util.MustBindPFlag("cache.metrics", flags.Lookup("cache-metrics"))
		util.MustBindEnv("cache.metrics", "SQUIRRELID_CACHE_METRICS")

		util.MustBindPFlag("remote.agent", flags.Lookup("remote-agent"))
		util.MustBindEnv("remote.agent", "SQUIRRELID_REMOTE_AGENT")

		util.MustBindPFlag("remote.profilesURL", flags.Lookup("remote-profiles-url"))
		util.MustBindEnv("remote.profilesURL", "SQUIRRELID_REMOTE_PROFILES_URL", "SQUIRRELID_REMOTE_PROFILESURL")

		util.MustBindPFlag("remote.nameHistoryURL", flags.Lookup("remote-name-history-url"))
		util.MustBindEnv("remote.nameHistoryURL", "SQUIRRELID_REMOTE_NAME_HISTORY_URL", "SQUIRRELID_REMOTE_NAMEHISTORYURL")

		util.MustBindPFlag("remote.maxRetries", flags.Lookup("remote-max-retries"))
		util.MustBindEnv("remote.maxRetries", "SQUIRRELID_REMOTE_MAX_RETRIES", "SQUIRRELID_REMOTE_MAXRETRIES")

		util.MustBindPFlag("remote.retryDelay", flags.Lookup("remote-retry-delay"))
		util.MustBindEnv("remote.retryDelay", "SQUIRRELID_REMOTE_RETRY_DELAY", "SQUIRRELID_REMOTE_RETRYDELAY")

		util.MustBindPFlag("parallel.workers", flags.Lookup("parallel-workers"))
		util.MustBindEnv("parallel.workers", "SQUIRRELID_PARALLEL_WORKERS")

		util.MustBindPFlag("parallel.profilesPerJob", flags.Lookup("parallel-profiles-per-job"))
		util.MustBindEnv("parallel.profilesPerJob", "SQUIRRELID_PARALLEL_PROFILES_PER_JOB", "SQUIRRELID_PARALLEL_PROFILESPERJOB")

		util.MustBindPFlag("names.caseSensitive", flags.Lookup("names-case-sensitive"))
		util.MustBindEnv("names.caseSensitive", "SQUIRRELID_NAMES_CASE_SENSITIVE", "SQUIRRELID_NAMES_CASESENSITIVE")

		util.MustBindPFlag("timeout", flags.Lookup("timeout"))
		util.MustBindEnv("timeout", "SQUIRRELID_TIMEOUT")

		util.MustBindPFlag(outputFlag, flags.Lookup(outputFlag))
	}
}

func registerFlags(flags *pflag.FlagSet) {
	defaultConfig := config.DefaultConfig()

	flags.String("log-format", defaultConfig.Log.Format, "the log format to output logs in ('text' or 'json')")
	flags.String("log-level", defaultConfig.Log.Level, "the log level to use ('none', 'debug', 'info', 'warn', 'error', 'panic', 'fatal')")

	flags.String("cache-engine", defaultConfig.Cache.Engine, "the profile cache engine ('none', 'memory', 'lru', 'sqlite', 'mysql', 'postgres', 'redis')")
	flags.String("cache-uri", defaultConfig.Cache.URI, "the connection uri of the cache: a file path for 'sqlite', a DSN for 'mysql' and 'postgres', comma separated addresses for 'redis'")
	flags.String("cache-username", defaultConfig.Cache.Username, "(optional) overwrite the username in the cache connection string")
	flags.String("cache-password", defaultConfig.Cache.Password, "(optional) overwrite the password in the cache connection string")
	flags.Int64("cache-max-size", defaultConfig.Cache.MaxSize, "the number of profiles the 'lru' cache keeps")
	flags.Duration("cache-ttl", defaultConfig.Cache.TTL, "how long the 'lru' and 'redis' caches keep a profile (0 keeps it until evicted)")
	flags.Duration("cache-connect-timeout", defaultConfig.Cache.ConnectTimeout, "how long to wait for a SQL cache database to accept connections")
	flags.Bool("cache-auto-migrate", defaultConfig.Cache.AutoMigrate, "migrate the 'mysql' and 'postgres' cache schema on startup")
	flags.Bool("cache-metrics", defaultConfig.Cache.Metrics, "export the SQL connection pool metrics")

	flags.String("remote-agent", defaultConfig.Remote.Agent, "the game agent whose profiles are looked up")
	flags.String("remote-profiles-url", defaultConfig.Remote.ProfilesURL, "override the endpoint resolving batches of names")
	flags.String("remote-name-history-url", defaultConfig.Remote.NameHistoryURL, "override the name history endpoint, '%s' is replaced by the dashless UUID")
	flags.Int("remote-max-retries", defaultConfig.Remote.MaxRetries, "how many times a failed remote request is retried")
	flags.Duration("remote-retry-delay", defaultConfig.Remote.RetryDelay, "the wait before the first retry, doubled for every further one")

	flags.Int("parallel-workers", defaultConfig.Parallel.Workers, "the number of batch lookups running at once")
	flags.Int("parallel-profiles-per-job", defaultConfig.Parallel.ProfilesPerJob, "the largest number of keys looked up by one worker at a time")

	flags.Bool("names-case-sensitive", defaultConfig.Names.CaseSensitive, "treat names differing only in case as different players")

	flags.Duration("timeout", defaultConfig.Timeout, "the time allowed for the whole lookup")

	flags.StringP(outputFlag, "o", outputText, "the output format ('text', 'json' or 'yaml')")
}

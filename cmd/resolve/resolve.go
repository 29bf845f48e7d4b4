// Package resolve contains the command looking up player profiles by name or UUID.
package resolve

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/enginehub/squirrelid/internal/config"
	"github.com/enginehub/squirrelid/pkg/logger"
	"github.com/enginehub/squirrelid/pkg/profile"
	"github.com/enginehub/squirrelid/pkg/resolver"
	"github.com/enginehub/squirrelid/pkg/resolver/remote"
)

const stdinArg = "-"

func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [names|uuids...]",
		Short: "Look up player profiles by name or UUID",
		Long: `Look up player profiles by name or UUID.

Every argument that parses as a UUID, with or without dashes, is looked up by
UUID; everything else is treated as a player name. Pass '-' to read keys from
standard input, one per line. Keys that cannot be resolved are left out of the
output.`,
		RunE: runResolve,
		Args: cobra.MinimumNArgs(1),
	}

	flags := cmd.Flags()
	registerFlags(flags)

	// NOTE: if you add a new flag here, update bindRunFlagsFunc, too

	cmd.PreRun = bindRunFlagsFunc(flags)

	return cmd
}

// ReadConfig returns the configuration built from flags, environment variables
// and the 'config.yaml' file, loaded from '/etc/squirrelid', '$HOME/.squirrelid'
// or the current working directory. Without a file the defaults are returned.
func ReadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	viper.SetTypeByDefaultValue(true)
	err := viper.ReadInConfig()
	if err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := ReadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Verify(); err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}

	keys, err := readKeys(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	src, closeCache, err := newSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	found, missing, err := resolveKeys(ctx, src, keys)
	if err != nil {
		return err
	}
	for _, key := range missing {
		log.Warn("no profile found", zap.String("key", key))
	}

	return writeProfiles(cmd.OutOrStdout(), viper.GetString(outputFlag), found)
}

func newSource(ctx context.Context, cfg *config.Config, log logger.Logger) (resolver.Source, func(), error) {
	c, closeCache, err := newCache(ctx, cfg, log.Named("cache"))
	if err != nil {
		return nil, nil, err
	}

	opts := []remote.Option{
		remote.WithAgent(cfg.Remote.Agent),
		remote.WithMaxRetries(cfg.Remote.MaxRetries),
		remote.WithRetryDelay(cfg.Remote.RetryDelay),
		remote.WithLogger(log.Named("remote")),
	}
	if cfg.Remote.ProfilesURL != "" {
		opts = append(opts, remote.WithProfilesURL(cfg.Remote.ProfilesURL))
	}
	if cfg.Remote.NameHistoryURL != "" {
		opts = append(opts, remote.WithNameHistoryURL(cfg.Remote.NameHistoryURL))
	}
	client, err := remote.New(opts...)
	if err != nil {
		closeCache()
		return nil, nil, err
	}

	matching := resolver.CaseInsensitive
	if cfg.Names.CaseSensitive {
		matching = resolver.CaseSensitive
	}

	src, err := resolver.NewPipeline(resolver.PipelineConfig{
		Cache:          c,
		Remote:         client,
		Workers:        cfg.Parallel.Workers,
		ProfilesPerJob: cfg.Parallel.ProfilesPerJob,
		NameMatching:   matching,
		Logger:         log.Named("resolver"),
	})
	if err != nil {
		closeCache()
		return nil, nil, err
	}
	return src, closeCache, nil
}

// readKeys expands a lone "-" argument into the non-empty lines of stdin.
func readKeys(args []string, stdin io.Reader) ([]string, error) {
	if len(args) != 1 || args[0] != stdinArg {
		return args, nil
	}

	var keys []string
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys = append(keys, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keys: %w", err)
	}
	return keys, nil
}

// splitKeys separates UUIDs from names.
func splitKeys(keys []string) ([]string, []uuid.UUID) {
	var names []string
	var ids []uuid.UUID
	for _, key := range keys {
		if id, err := profile.ParseID(key); err == nil {
			ids = append(ids, id)
			continue
		}
		names = append(names, key)
	}
	return names, ids
}

// resolveKeys looks up names and UUIDs concurrently and returns the profiles in
// the order their keys were given, plus the keys nothing was found for.
func resolveKeys(ctx context.Context, src resolver.Source, keys []string) ([]profile.Profile, []string, error) {
	names, ids := splitKeys(keys)

	var byName, byID []profile.Profile
	g, gctx := errgroup.WithContext(ctx)
	if len(names) > 0 {
		g.Go(func() error {
			var err error
			byName, err = src.FindAllByName(gctx, names)
			return err
		})
	}
	if len(ids) > 0 {
		g.Go(func() error {
			var err error
			byID, err = src.FindAllByUUID(gctx, ids)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	nameIndex := make(map[string]profile.Profile, len(byName))
	for _, p := range byName {
		nameIndex[profile.NameKey(p.Name)] = p
	}
	idIndex := make(map[uuid.UUID]profile.Profile, len(byID))
	for _, p := range byID {
		idIndex[p.ID] = p
	}

	var found []profile.Profile
	var missing []string
	printed := make(map[uuid.UUID]struct{}, len(keys))
	for _, key := range keys {
		var p profile.Profile
		var ok bool
		if id, err := profile.ParseID(key); err == nil {
			p, ok = idIndex[id]
		} else {
			p, ok = nameIndex[profile.NameKey(key)]
		}
		if !ok {
			missing = append(missing, key)
			continue
		}
		if _, dup := printed[p.ID]; dup {
			continue
		}
		printed[p.ID] = struct{}{}
		found = append(found, p)
	}
	return found, missing, nil
}

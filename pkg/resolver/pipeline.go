package resolver

import (
	"fmt"

	"github.com/enginehub/squirrelid/pkg/cache"
	"github.com/enginehub/squirrelid/pkg/logger"
	"github.com/enginehub/squirrelid/pkg/profile"
)

// PipelineConfig lists the parts of a standard lookup pipeline. Everything but
// Remote is optional.
type PipelineConfig struct {
	// Known profiles answer lookups before anything else.
	Known []profile.Profile

	// Registry holds the players currently online.
	Registry PlayerRegistry

	// Cache is read before the remote source and fed with everything resolved.
	Cache cache.Cache

	Remote Source

	// Workers enables parallel batch lookups when greater than zero.
	Workers        int
	ProfilesPerJob int

	NameMatching NameMatching
	Logger       logger.Logger
}

// NewPipeline assembles the sources of cfg as
// Parallel -> CacheForwarding -> Combined[known, registry, cache, remote].
func NewPipeline(cfg PipelineConfig) (Source, error) {
	if cfg.Remote == nil {
		return nil, fmt.Errorf("%w: remote source is required", ErrInvalidConfig)
	}

	var members []Source
	if len(cfg.Known) > 0 {
		members = append(members, NewHashMapSource(cfg.Known...))
	}
	if registry, ok := NewRegistrySource(cfg.Registry); ok {
		members = append(members, registry)
	}
	if cfg.Cache != nil {
		members = append(members, NewCacheSource(cfg.Cache))
	}
	members = append(members, cfg.Remote)

	var src Source = NewCombinedSource(members, WithNameMatching(cfg.NameMatching))
	if cfg.Cache != nil {
		forwarding, err := NewCacheForwardingSource(src, cfg.Cache)
		if err != nil {
			return nil, err
		}
		src = forwarding
	}

	if cfg.Workers <= 0 {
		return src, nil
	}

	opts := []ParallelOption{}
	if cfg.ProfilesPerJob > 0 {
		opts = append(opts, WithProfilesPerJob(cfg.ProfilesPerJob))
	}
	if cfg.Logger != nil {
		opts = append(opts, WithParallelLogger(cfg.Logger))
	}
	parallel, err := NewParallelSource(src, cfg.Workers, opts...)
	if err != nil {
		return nil, err
	}
	return parallel, nil
}

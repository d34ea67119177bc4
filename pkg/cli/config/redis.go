package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/service/statscache"
	"github.com/urfave/cli/v3"
)

// Redis holds the optional stats cache configuration
type Redis struct {
	Addr     string
	CacheTTL time.Duration
}

// Flags returns CLI flags for Redis configuration
func (r *Redis) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address for the stats cache (disabled when empty)",
			Category:    "Redis",
			Sources:     cli.EnvVars("UMBRELLA_REDIS_ADDR"),
			Destination: &r.Addr,
		},
		&cli.DurationFlag{
			Name:        "stats-cache-ttl",
			Usage:       "TTL for cached alert statistics",
			Category:    "Redis",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("UMBRELLA_STATS_CACHE_TTL"),
			Destination: &r.CacheTTL,
		},
	}
}

// IsConfigured checks if the stats cache is configured
func (r *Redis) IsConfigured() bool {
	return r.Addr != ""
}

// ConfigureOptional creates the stats cache, or nil when not configured
func (r *Redis) ConfigureOptional(ctx context.Context) (*statscache.Cache, error) {
	if !r.IsConfigured() {
		return nil, nil
	}

	cache, err := statscache.New(ctx, r.Addr, r.CacheTTL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init stats cache", goerr.V("addr", r.Addr))
	}
	return cache, nil
}

// LogValue returns structured log value
func (r Redis) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", r.Addr),
		slog.Duration("cacheTTL", r.CacheTTL),
	)
}

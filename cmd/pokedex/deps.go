package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/pokeapi-explorer/internal/config"
	"github.com/Sternrassler/pokeapi-explorer/pkg/catalog"
	"github.com/Sternrassler/pokeapi-explorer/pkg/client"
	"github.com/Sternrassler/pokeapi-explorer/pkg/pagination"
)

// deps holds the wired application services.
type deps struct {
	config  *config.Config
	redis   *redis.Client
	client  *client.Client
	catalog *catalog.Service
}

// newDeps connects Redis when configured and builds the client and catalog.
// An unreachable Redis fails startup rather than silently running uncached.
func newDeps(ctx context.Context, cfg *config.Config) (*deps, error) {
	d := &deps{config: cfg}

	opts, err := cfg.RedisOptions()
	if err != nil {
		return nil, err
	}
	if opts != nil {
		d.redis = redis.NewClient(opts)
		if err := d.redis.Ping(ctx).Err(); err != nil {
			d.redis.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
		}
		log.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
	}

	clientCfg := client.DefaultConfig(cfg.UserAgent)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.Timeout = cfg.HTTPTimeout
	clientCfg.Redis = d.redis
	clientCfg.RateLimit = cfg.RateLimit

	d.client, err = client.New(clientCfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("create pokeapi client: %w", err)
	}

	catalogCfg := catalog.DefaultConfig()
	catalogCfg.Batch = pagination.Config{
		MaxConcurrency: cfg.BatchConcurrency,
		Timeout:        cfg.HTTPTimeout,
	}
	d.catalog = catalog.NewService(d.client, catalogCfg)

	return d, nil
}

// Close releases the HTTP and Redis connections.
func (d *deps) Close() {
	if d.client != nil {
		d.client.Close()
	}
	if d.redis != nil {
		d.redis.Close()
	}
}

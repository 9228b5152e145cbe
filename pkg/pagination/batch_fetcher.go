package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests
	MaxConcurrency int
	// Timeout per item fetch
	Timeout time.Duration
}

// DefaultConfig returns a configuration that stays polite towards PokeAPI.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 5,
		Timeout:        15 * time.Second,
	}
}

// FetchFunc fetches a single resource by reference.
type FetchFunc[T any] func(ctx context.Context, ref string) (T, error)

// FetchAll fetches every ref in parallel, with at most cfg.MaxConcurrency
// fetches in flight. Results are returned in the order of refs.
// The first failure cancels the remaining fetches and is returned.
func FetchAll[T any](ctx context.Context, cfg Config, refs []string, fetch FetchFunc[T]) ([]T, error) {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	results := make([]T, len(refs))
	if len(refs) == 0 {
		return results, nil
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrency)

	for i, ref := range refs {
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(gctx, cfg.Timeout)
			defer cancel()

			item, err := fetch(itemCtx, ref)
			if err != nil {
				log.Warn().
					Err(err).
					Str("ref", ref).
					Msg("Batch item fetch failed")
				return fmt.Errorf("fetch %s: %w", ref, err)
			}
			// Each goroutine owns its own index.
			results[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("items", len(refs)).
		Int("concurrency", cfg.MaxConcurrency).
		Dur("duration", time.Since(start)).
		Msg("Batch fetch complete")

	return results, nil
}

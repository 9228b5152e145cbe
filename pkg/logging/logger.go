// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level: debug, info, warn or error. Unknown
	// names log at info.
	Level string

	// Pretty writes colored console lines instead of JSON.
	Pretty bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig logs JSON at info to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Output: os.Stderr}
}

// Setup installs the global logger used by NewLogger and by context
// lookups without a request logger, and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Str("service", "pokedex").Logger()
	zerolog.DefaultContextLogger = &log.Logger
	return log.Logger
}

// ParseLevel maps a level name to a zerolog level, accepting "warning"
// as an alias and falling back to info.
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewLogger derives a logger tagged with component from the global logger.
// Call it after Setup.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// FromContext returns the request-scoped logger stored by the web
// middleware, or the global logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// Log Level Guidelines:
//
// Debug: cache hits and stores, conditional requests, listing loads,
// superseded list-view loads.
//
// Info: server startup and shutdown, served HTTP requests.
//
// Warn: upstream error statuses, cache and budget failures that fall back
// to a direct request, trigger tab failures.
//
// Error: transport failures, 429 cooldowns, server failures.
//
// Context Fields:
//   - component: emitting package
//   - request_id: per-request id set by the web middleware
//   - endpoint: upstream endpoint label (e.g. "pokemon/:name")
//   - status: HTTP status code
//   - error_class: client, server, rate_limit or network
//   - etag: ETag value for conditional requests
//   - ttl: cache entry TTL

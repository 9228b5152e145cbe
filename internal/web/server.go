// Package web serves the catalog as server-rendered HTML.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/pokeapi-explorer/pkg/catalog"
	"github.com/Sternrassler/pokeapi-explorer/pkg/logging"
	"github.com/Sternrassler/pokeapi-explorer/pkg/metrics"
)

// Catalog is the data source of the pages. *catalog.Service implements it.
type Catalog interface {
	LoadListing(ctx context.Context, page int, search string, pageSize int) (*catalog.ListingPage, error)
	LoadDetailView(ctx context.Context, ref string, triggerPage, triggerPageSize int) (*catalog.DetailView, error)
}

// Config holds server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// PageSize is the number of rows per listing page.
	PageSize int

	// TriggerPageSize is the number of rows per evolution trigger page.
	TriggerPageSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		PageSize:        20,
		TriggerPageSize: 10,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Server renders the listing and detail pages.
type Server struct {
	config  Config
	catalog Catalog
	redis   *redis.Client
	logger  zerolog.Logger
}

// NewServer creates a server. rdb may be nil, in which case /ready does
// not check Redis.
func NewServer(cfg Config, cat Catalog, rdb *redis.Client) (*Server, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be > 0 (got %d)", cfg.PageSize)
	}
	if cfg.TriggerPageSize <= 0 {
		return nil, fmt.Errorf("trigger page size must be > 0 (got %d)", cfg.TriggerPageSize)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultConfig().ShutdownTimeout
	}

	return &Server{
		config:  cfg,
		catalog: cat,
		redis:   rdb,
		logger:  logging.NewLogger("web"),
	}, nil
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleListing)
	mux.HandleFunc("GET /pokemon/{name}", s.handleDetail)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	var h http.Handler = mux
	h = recoverPanic(h)
	h = accessLog(h)
	h = requestID(s.logger)(h)
	h = metrics.Middleware(h)
	return h
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("Server listening")
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	s.logger.Info().Msg("Server stopped")
	return nil
}

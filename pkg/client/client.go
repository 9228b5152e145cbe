// Package client provides the PokeAPI HTTP client with optional request
// budgeting, optional response caching, and error classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/pokeapi-explorer/pkg/cache"
	"github.com/Sternrassler/pokeapi-explorer/pkg/logging"
	"github.com/Sternrassler/pokeapi-explorer/pkg/ratelimit"
)

// DefaultBaseURL is the public PokeAPI v2 root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Prometheus metrics for upstream requests.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeapi_requests_total",
		Help: "Total PokeAPI requests by endpoint and status",
	}, []string{"endpoint", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pokeapi_request_duration_seconds",
		Help:    "PokeAPI request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeapi_errors_total",
		Help: "Total PokeAPI errors by class",
	}, []string{"class"})
)

// Client is the PokeAPI client.
type Client struct {
	httpClient  *http.Client
	baseURL     *url.URL
	rateLimiter *ratelimit.Tracker
	cache       *cache.Store
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. "https://pokeapi.co/api/v2"
	BaseURL string

	// User-Agent header sent with every request
	UserAgent string

	// Timeout bounds a single request including reading the body
	Timeout time.Duration

	// Redis enables the response cache and the shared request budget.
	// Nil leaves both disabled.
	Redis *redis.Client

	// RateLimit is the shared budget in requests per second (0 disables the
	// budget but still honors upstream 429 cooldowns when Redis is set)
	RateLimit int

	// Transport holds connection-level settings
	Transport TransportConfig
}

// DefaultConfig returns a configuration without cache or budget.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
		Transport: DefaultTransportConfig(),
	}
}

// New creates a new PokeAPI client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("rate_limit must be >= 0 (got %d)", cfg.RateLimit)
	}

	logger := logging.NewLogger("pokeapi-client")

	c := &Client{
		httpClient: newHTTPClient(cfg.Transport, cfg.Timeout),
		baseURL:    base,
		config:     cfg,
		logger:     logger,
	}

	if cfg.Redis != nil {
		c.rateLimiter = ratelimit.NewTracker(cfg.Redis, cfg.RateLimit, logger)
		c.cache = cache.NewStore(cfg.Redis)
	}

	return c, nil
}

// Do serves req from the response cache when fresh, otherwise sends it
// through the budget gate to upstream.
// Any status code is returned as a response; only failures to obtain a
// response produce an error. Use Get for status-checked requests.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := endpointLabel(c.baseURL.Path, req.URL.Path)

	start := time.Now()
	defer func() {
		upstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	key := cache.KeyFor(req)
	stored := c.lookup(ctx, key, req.Method, endpoint)
	if stored != nil && stored.Fresh(time.Now()) {
		upstreamRequestsTotal.WithLabelValues(endpoint, "cache_hit").Inc()
		return stored.Response(req), nil
	}

	// Only requests that reach upstream spend budget or hit the cooldown.
	if err := c.admit(req, endpoint); err != nil {
		return nil, err
	}
	if stored.Revalidatable() {
		stored.ApplyValidators(req)
		cache.RevalidationsTotal.WithLabelValues("sent").Inc()
		c.logger.Debug().Str("endpoint", endpoint).Str("etag", stored.ETag).Msg("Revalidating stale response")
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("url", req.URL.String()).
		Msg("Executing PokeAPI request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, c.networkError(req, endpoint, err)
	}
	upstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if c.rateLimiter != nil {
		if err := c.rateLimiter.RecordResponse(ctx, resp.StatusCode, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to record rate limit response")
		}
	}

	if resp.StatusCode == http.StatusNotModified && stored != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := c.cache.Refresh(ctx, key, stored, resp.Header); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to refresh cached response")
		}
		return stored.Response(req), nil
	}

	if c.cache != nil && req.Method == http.MethodGet && cache.Storable(resp) {
		entry, err := cache.FromResponse(resp)
		if err != nil {
			return nil, c.networkError(req, endpoint, err)
		}
		if err := c.cache.Save(ctx, key, entry); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache response")
		}
	}

	return resp, nil
}

// admit consumes one unit of the shared budget. It returns a rate_limit
// UpstreamError while an upstream cooldown is active. Budget state that
// cannot be read lets the request through unmetered.
func (c *Client) admit(req *http.Request, endpoint string) error {
	if c.rateLimiter == nil {
		return nil
	}

	allowed, err := c.rateLimiter.ShouldAllowRequest(req.Context())
	switch {
	case err != nil && req.Context().Err() != nil:
		return c.networkError(req, endpoint, err)
	case err != nil:
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Rate limit check failed")
		return nil
	case !allowed:
		upstreamRequestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassRateLimit)).Inc()
		return &UpstreamError{
			StatusCode: http.StatusTooManyRequests,
			Class:      ErrorClassRateLimit,
			Endpoint:   req.URL.Path,
			Message:    "request blocked: upstream cooldown active",
		}
	}
	return nil
}

// lookup returns the stored entry for a GET, or nil.
func (c *Client) lookup(ctx context.Context, key cache.Key, method, endpoint string) *cache.Entry {
	if c.cache == nil || method != http.MethodGet {
		return nil
	}
	entry, err := c.cache.Lookup(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache lookup failed")
		}
		return nil
	}
	return entry
}

// Get performs a GET request against path relative to the base URL and
// returns an *UpstreamError for any non-2xx status.
// The caller must close the response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}

	if class := classifyStatus(resp.StatusCode); class != "" {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		upstreamErrorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("endpoint", u.Path).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("PokeAPI request error")

		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Class:      class,
			Endpoint:   u.Path,
			Message:    resp.Status,
		}
	}

	return resp, nil
}

// GetJSON performs Get and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, v any) error {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if ctx.Err() != nil {
			return c.networkError(resp.Request, path, err)
		}
		upstreamErrorsTotal.WithLabelValues(string(ErrorClassServer)).Inc()
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassServer,
			Endpoint:   resp.Request.URL.Path,
			Message:    "invalid JSON body",
			Err:        err,
		}
	}

	return nil
}

// networkError records and wraps a failure to get a response.
func (c *Client) networkError(req *http.Request, endpoint string, err error) error {
	upstreamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
	c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
	return &UpstreamError{
		Class:    ErrorClassNetwork,
		Endpoint: req.URL.Path,
		Message:  "request failed",
		Err:      err,
	}
}

// endpointLabel reduces a request path to a low-cardinality metrics label:
// "/api/v2/pokemon/pikachu" becomes "pokemon/:name".
func endpointLabel(basePath, path string) string {
	rest := strings.Trim(strings.TrimPrefix(path, basePath), "/")
	if rest == "" {
		return "/"
	}
	resource, _, hasName := strings.Cut(rest, "/")
	if hasName {
		return resource + "/:name"
	}
	return resource
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Close releases idle upstream connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Cache returns the response store, nil when caching is disabled.
func (c *Client) Cache() *cache.Store {
	return c.cache
}

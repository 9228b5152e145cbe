package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for budget tracking.
var (
	budgetRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pokeapi_budget_remaining",
		Help: "Requests remaining in the current PokeAPI budget window",
	})

	rateLimitBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeapi_rate_limit_blocks_total",
		Help: "Total number of requests blocked during an upstream 429 cooldown",
	})

	rateLimitThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeapi_rate_limit_throttles_total",
		Help: "Total number of requests delayed because the window budget was spent",
	})
)

// Tracker counts outgoing requests against the shared budget and gates them.
type Tracker struct {
	redis  *redis.Client
	limit  int
	logger zerolog.Logger
}

// NewTracker creates a new budget tracker allowing limit requests per second.
// A limit of zero only enforces upstream 429 cooldowns.
func NewTracker(redisClient *redis.Client, limit int, logger zerolog.Logger) *Tracker {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Tracker{
		redis:  redisClient,
		limit:  limit,
		logger: logger,
	}
}

// GetState retrieves the current budget state from Redis without consuming budget.
func (t *Tracker) GetState(ctx context.Context) (*RateLimitState, error) {
	now := time.Now()
	state := &RateLimitState{
		Limit:         t.limit,
		WindowResetAt: now.Truncate(Window).Add(Window),
	}

	used, err := t.redis.Get(ctx, windowKey(now)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get window count: %w", err)
	}
	state.Used = used

	blocked, err := t.redis.Get(ctx, RedisKeyBlockedUntil).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get blocked until: %w", err)
	}
	if blocked > 0 {
		state.BlockedUntil = time.UnixMilli(blocked)
	}

	return state, nil
}

// ShouldAllowRequest consumes one unit of budget.
// Returns false if the upstream cooldown is active.
// Returns true but waits for the next window if the current one is spent;
// the wait ends early with ctx.Err() when ctx is done.
func (t *Tracker) ShouldAllowRequest(ctx context.Context) (bool, error) {
	for {
		state, err := t.consume(ctx)
		if err != nil {
			return false, fmt.Errorf("get rate limit state: %w", err)
		}

		if state.NeedsCriticalBlock() {
			t.logger.Error().
				Dur("wait_duration", state.TimeUntilUnblocked()).
				Msg("PokeAPI cooldown active - blocking request")

			rateLimitBlocksTotal.Inc()
			return false, nil
		}

		if !state.NeedsThrottling() {
			budgetRemaining.Set(float64(state.Remaining()))
			return true, nil
		}

		wait := state.TimeUntilReset()
		t.logger.Warn().
			Int("used", state.Used).
			Int("limit", state.Limit).
			Dur("wait_duration", wait).
			Msg("PokeAPI budget spent - throttling request")

		rateLimitThrottlesTotal.Inc()
		budgetRemaining.Set(0)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}
}

// consume increments the current window counter and returns the resulting state.
func (t *Tracker) consume(ctx context.Context) (*RateLimitState, error) {
	now := time.Now()
	key := windowKey(now)

	pipe := t.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*Window)
	blocked := pipe.Get(ctx, RedisKeyBlockedUntil)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("consume budget: %w", err)
	}

	state := &RateLimitState{
		Used:          int(incr.Val()),
		Limit:         t.limit,
		WindowResetAt: now.Truncate(Window).Add(Window),
	}
	if ms, err := blocked.Int64(); err == nil && ms > 0 {
		state.BlockedUntil = time.UnixMilli(ms)
	}

	return state, nil
}

// RecordResponse inspects an upstream response and starts a cooldown when
// the upstream answered 429 Too Many Requests.
func (t *Tracker) RecordResponse(ctx context.Context, statusCode int, headers http.Header) error {
	if statusCode != http.StatusTooManyRequests {
		return nil
	}

	cooldown := parseRetryAfter(headers.Get("Retry-After"))
	until := time.Now().Add(cooldown)

	if err := t.redis.Set(ctx, RedisKeyBlockedUntil, until.UnixMilli(), cooldown).Err(); err != nil {
		return fmt.Errorf("store cooldown in redis: %w", err)
	}

	t.logger.Error().
		Dur("cooldown", cooldown).
		Time("blocked_until", until).
		Msg("PokeAPI returned 429 - requests will be blocked")

	return nil
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return DefaultCooldown
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return DefaultCooldown
}

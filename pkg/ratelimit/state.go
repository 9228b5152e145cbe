// Package ratelimit implements a fair-use request budget for the public
// PokeAPI. The budget is a fixed one-second window counted in Redis so that
// several server instances share it, plus a cooldown recorded whenever the
// upstream answers 429 Too Many Requests.
package ratelimit

import (
	"time"
)

// Redis keys for budget state storage.
const (
	// RedisKeyWindowPrefix is suffixed with the unix second of the window.
	RedisKeyWindowPrefix = "pokeapi:rate_limit:window:"
	RedisKeyBlockedUntil = "pokeapi:rate_limit:blocked_until"
)

const (
	// DefaultCooldown applies when a 429 carries no usable Retry-After header.
	DefaultCooldown = 60 * time.Second

	// Window is the length of one budget window.
	Window = time.Second
)

// RateLimitState represents the current budget state shared via Redis.
type RateLimitState struct {
	// Used is the number of requests issued in the current window.
	Used int `json:"used"`

	// Limit is the number of requests allowed per window. Zero means unlimited.
	Limit int `json:"limit"`

	// WindowResetAt is when the current window ends.
	WindowResetAt time.Time `json:"window_reset_at"`

	// BlockedUntil is set after the upstream answered 429.
	BlockedUntil time.Time `json:"blocked_until"`
}

// NeedsCriticalBlock returns true while the upstream cooldown is active.
func (s *RateLimitState) NeedsCriticalBlock() bool {
	return time.Now().Before(s.BlockedUntil)
}

// NeedsThrottling returns true if the window budget is spent and the
// request has to wait for the next window.
func (s *RateLimitState) NeedsThrottling() bool {
	return s.Limit > 0 && s.Used > s.Limit && !s.NeedsCriticalBlock()
}

// Remaining returns the requests left in the current window.
// Returns -1 when no limit is configured.
func (s *RateLimitState) Remaining() int {
	if s.Limit <= 0 {
		return -1
	}
	if s.Used >= s.Limit {
		return 0
	}
	return s.Limit - s.Used
}

// TimeUntilReset returns the duration until the current window ends.
// Returns 0 if the window has already passed.
func (s *RateLimitState) TimeUntilReset() time.Duration {
	duration := time.Until(s.WindowResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// TimeUntilUnblocked returns the remaining cooldown.
func (s *RateLimitState) TimeUntilUnblocked() time.Duration {
	duration := time.Until(s.BlockedUntil)
	if duration < 0 {
		return 0
	}
	return duration
}

// windowKey returns the Redis key counting requests for the window containing t.
func windowKey(t time.Time) string {
	return RedisKeyWindowPrefix + t.Truncate(Window).Format("20060102T150405")
}

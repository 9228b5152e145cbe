package ratelimit

import (
	"net/http"
	"testing"
	"time"
)

func TestRateLimitState_Decisions(t *testing.T) {
	tests := []struct {
		name         string
		state        RateLimitState
		wantBlock    bool
		wantThrottle bool
		wantRemain   int
	}{
		{
			name:       "within budget",
			state:      RateLimitState{Used: 3, Limit: 10},
			wantRemain: 7,
		},
		{
			name:       "exactly at budget",
			state:      RateLimitState{Used: 10, Limit: 10},
			wantRemain: 0,
		},
		{
			name:         "over budget",
			state:        RateLimitState{Used: 11, Limit: 10},
			wantThrottle: true,
			wantRemain:   0,
		},
		{
			name:       "unlimited",
			state:      RateLimitState{Used: 500},
			wantRemain: -1,
		},
		{
			name:       "cooldown active",
			state:      RateLimitState{Used: 20, Limit: 10, BlockedUntil: time.Now().Add(time.Minute)},
			wantBlock:  true,
			wantRemain: 0,
		},
		{
			name:         "cooldown expired",
			state:        RateLimitState{Used: 11, Limit: 10, BlockedUntil: time.Now().Add(-time.Minute)},
			wantThrottle: true,
			wantRemain:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.NeedsCriticalBlock(); got != tt.wantBlock {
				t.Errorf("NeedsCriticalBlock() = %v, want %v", got, tt.wantBlock)
			}
			if got := tt.state.NeedsThrottling(); got != tt.wantThrottle {
				t.Errorf("NeedsThrottling() = %v, want %v", got, tt.wantThrottle)
			}
			if got := tt.state.Remaining(); got != tt.wantRemain {
				t.Errorf("Remaining() = %d, want %d", got, tt.wantRemain)
			}
		})
	}
}

func TestRateLimitState_TimeUntil(t *testing.T) {
	past := RateLimitState{
		WindowResetAt: time.Now().Add(-time.Second),
		BlockedUntil:  time.Now().Add(-time.Second),
	}
	if past.TimeUntilReset() != 0 {
		t.Errorf("TimeUntilReset() = %v, want 0", past.TimeUntilReset())
	}
	if past.TimeUntilUnblocked() != 0 {
		t.Errorf("TimeUntilUnblocked() = %v, want 0", past.TimeUntilUnblocked())
	}

	future := RateLimitState{BlockedUntil: time.Now().Add(30 * time.Second)}
	if d := future.TimeUntilUnblocked(); d < 29*time.Second || d > 30*time.Second {
		t.Errorf("TimeUntilUnblocked() = %v, want ~30s", d)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantMin time.Duration
		wantMax time.Duration
	}{
		{"seconds", "120", 120 * time.Second, 120 * time.Second},
		{"empty", "", DefaultCooldown, DefaultCooldown},
		{"garbage", "soon", DefaultCooldown, DefaultCooldown},
		{"zero", "0", DefaultCooldown, DefaultCooldown},
		{"http date", time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat), 88 * time.Second, 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseRetryAfter(tt.value)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("parseRetryAfter(%q) = %v, want between %v and %v", tt.value, got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestWindowKey(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 7, 0, time.UTC)

	if windowKey(base) != windowKey(base.Add(900*time.Millisecond)) {
		t.Error("times within one second should share a window key")
	}
	if windowKey(base) == windowKey(base.Add(time.Second)) {
		t.Error("consecutive seconds should not share a window key")
	}
}

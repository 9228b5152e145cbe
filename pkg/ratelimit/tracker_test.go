package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// setupTestRedis connects to a local Redis on DB 15 and skips the test when
// none is running.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewTracker_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewTracker should panic with nil redis client")
		}
	}()
	NewTracker(nil, 10, zerolog.Nop())
}

func TestTracker_GetState_Empty(t *testing.T) {
	tracker := NewTracker(setupTestRedis(t), 10, zerolog.Nop())

	state, err := tracker.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if state.Used != 0 {
		t.Errorf("Used = %d, want 0", state.Used)
	}
	if state.NeedsCriticalBlock() || state.NeedsThrottling() {
		t.Error("empty state should allow requests")
	}
}

func TestTracker_ShouldAllowRequest_CountsUsage(t *testing.T) {
	tracker := NewTracker(setupTestRedis(t), 100, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := tracker.ShouldAllowRequest(ctx)
		if err != nil {
			t.Fatalf("ShouldAllowRequest() error = %v", err)
		}
		if !allowed {
			t.Fatalf("ShouldAllowRequest() = false on request %d", i+1)
		}
	}

	state, err := tracker.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	// The window may have rolled over between calls.
	if state.Used > 3 {
		t.Errorf("Used = %d, want <= 3", state.Used)
	}
}

func TestTracker_ShouldAllowRequest_ThrottlesOverBudget(t *testing.T) {
	tracker := NewTracker(setupTestRedis(t), 1, zerolog.Nop())
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		allowed, err := tracker.ShouldAllowRequest(ctx)
		if err != nil || !allowed {
			t.Fatalf("ShouldAllowRequest() = %v, %v", allowed, err)
		}
	}

	// Three requests at one per second need at least one window rollover.
	if elapsed := time.Since(start); elapsed < 500*time.Millisecond {
		t.Errorf("three requests with limit 1 took %v, want throttling", elapsed)
	}
}

func TestTracker_ShouldAllowRequest_ContextCancelledWhileThrottled(t *testing.T) {
	tracker := NewTracker(setupTestRedis(t), 1, zerolog.Nop())

	// Spend the current window.
	_, _ = tracker.ShouldAllowRequest(context.Background())
	_, _ = tracker.ShouldAllowRequest(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	allowed, err := tracker.ShouldAllowRequest(ctx)
	if allowed && err == nil {
		// The window rolled over before the third call; nothing to assert.
		return
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ShouldAllowRequest() error = %v, want context.Canceled", err)
	}
}

func TestTracker_RecordResponse_Cooldown(t *testing.T) {
	tracker := NewTracker(setupTestRedis(t), 0, zerolog.Nop())
	ctx := context.Background()

	if err := tracker.RecordResponse(ctx, http.StatusOK, http.Header{}); err != nil {
		t.Fatalf("RecordResponse(200) error = %v", err)
	}
	if allowed, _ := tracker.ShouldAllowRequest(ctx); !allowed {
		t.Fatal("request blocked without a 429")
	}

	headers := http.Header{"Retry-After": []string{"30"}}
	if err := tracker.RecordResponse(ctx, http.StatusTooManyRequests, headers); err != nil {
		t.Fatalf("RecordResponse(429) error = %v", err)
	}

	allowed, err := tracker.ShouldAllowRequest(ctx)
	if err != nil {
		t.Fatalf("ShouldAllowRequest() error = %v", err)
	}
	if allowed {
		t.Error("ShouldAllowRequest() = true during cooldown")
	}

	state, err := tracker.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}
	if d := state.TimeUntilUnblocked(); d < 28*time.Second || d > 30*time.Second {
		t.Errorf("TimeUntilUnblocked() = %v, want ~30s", d)
	}
}

package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchAll_PreservesOrder(t *testing.T) {
	refs := []string{"level-up", "trade", "use-item", "shed", "spin"}
	delays := map[string]time.Duration{
		"level-up": 25 * time.Millisecond,
		"trade":    20 * time.Millisecond,
		"use-item": 15 * time.Millisecond,
		"shed":     10 * time.Millisecond,
		"spin":     5 * time.Millisecond,
	}

	got, err := FetchAll(context.Background(), DefaultConfig(), refs, func(ctx context.Context, ref string) (string, error) {
		// Later refs finish first.
		time.Sleep(delays[ref])
		return "got-" + ref, nil
	})
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	for i, ref := range refs {
		if got[i] != "got-"+ref {
			t.Errorf("result[%d] = %q, want %q", i, got[i], "got-"+ref)
		}
	}
}

func TestFetchAll_BoundsConcurrency(t *testing.T) {
	refs := make([]string, 20)
	for i := range refs {
		refs[i] = fmt.Sprintf("ref-%d", i)
	}

	var inFlight, peak int32
	cfg := Config{MaxConcurrency: 3, Timeout: time.Second}

	_, err := FetchAll(context.Background(), cfg, refs, func(ctx context.Context, ref string) (int, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return 0, nil
	})
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	if peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
}

func TestFetchAll_FirstErrorWins(t *testing.T) {
	errBoom := errors.New("boom")
	refs := []string{"a", "b", "c"}

	_, err := FetchAll(context.Background(), DefaultConfig(), refs, func(ctx context.Context, ref string) (int, error) {
		if ref == "b" {
			return 0, errBoom
		}
		return 1, nil
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("FetchAll() error = %v, want %v", err, errBoom)
	}
}

func TestFetchAll_Empty(t *testing.T) {
	got, err := FetchAll(context.Background(), Config{}, nil, func(ctx context.Context, ref string) (int, error) {
		t.Fatal("fetch should not be called")
		return 0, nil
	})
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(result) = %d, want 0", len(got))
	}
}

func TestFetchAll_PerItemTimeout(t *testing.T) {
	cfg := Config{MaxConcurrency: 1, Timeout: 10 * time.Millisecond}

	_, err := FetchAll(context.Background(), cfg, []string{"slow"}, func(ctx context.Context, ref string) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("FetchAll() error = %v, want deadline exceeded", err)
	}
}

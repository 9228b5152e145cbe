package cache

import (
	"io"
	"net/http"
	"testing"
	"time"
)

func TestEntry_Fresh(t *testing.T) {
	now := time.Now()
	entry := &Entry{FreshUntil: now.Add(time.Minute)}

	if !entry.Fresh(now) {
		t.Error("Fresh() = false before FreshUntil")
	}
	if entry.Fresh(now.Add(2 * time.Minute)) {
		t.Error("Fresh() = true after FreshUntil")
	}
}

func TestEntry_Retention(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		entry Entry
		want  time.Duration
	}{
		{"fresh without validators", Entry{FreshUntil: now.Add(time.Minute)}, time.Minute},
		{"stale without validators", Entry{FreshUntil: now.Add(-time.Minute)}, 0},
		{"stale with etag", Entry{ETag: `"v1"`, FreshUntil: now.Add(-time.Minute)}, RetainStale},
		{"fresh with last-modified", Entry{LastModified: now, FreshUntil: now.Add(time.Hour)}, time.Hour + RetainStale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.retention(now); got != tt.want {
				t.Errorf("retention() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_ApplyValidators(t *testing.T) {
	lastMod := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		entry     *Entry
		wantCond  bool
		wantETag  string
		wantSince string
	}{
		{"etag preferred", &Entry{ETag: `"v1"`, LastModified: lastMod}, true, `"v1"`, ""},
		{"last-modified only", &Entry{LastModified: lastMod}, true, "", lastMod.Format(http.TimeFormat)},
		{"no validators", &Entry{}, false, "", ""},
		{"nil entry", nil, false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Revalidatable(); got != tt.wantCond {
				t.Errorf("Revalidatable() = %v, want %v", got, tt.wantCond)
			}

			req, _ := http.NewRequest(http.MethodGet, "https://pokeapi.co/api/v2/pokemon/1", nil)
			tt.entry.ApplyValidators(req)

			if got := req.Header.Get("If-None-Match"); got != tt.wantETag {
				t.Errorf("If-None-Match = %q, want %q", got, tt.wantETag)
			}
			if got := req.Header.Get("If-Modified-Since"); got != tt.wantSince {
				t.Errorf("If-Modified-Since = %q, want %q", got, tt.wantSince)
			}
		})
	}
}

func TestEntry_Response(t *testing.T) {
	entry := &Entry{
		Body:        []byte(`{"count":1302}`),
		ContentType: "application/json",
		ETag:        `"v1"`,
	}

	resp := entry.Response(nil)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Cache"); got != "HIT" {
		t.Errorf("X-Cache = %q, want HIT", got)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"count":1302}` {
		t.Errorf("body = %q", body)
	}
}

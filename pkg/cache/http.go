package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTTL applies when a response carries no freshness headers.
	DefaultTTL = 5 * time.Minute

	// RetainStale keeps entries with validators past freshness so they can
	// be revalidated.
	RetainStale = 24 * time.Hour
)

// Storable reports whether resp may be stored. PokeAPI answers with
// "Cache-Control: public, max-age=86400"; no-store and private are honored.
func Storable(resp *http.Response) bool {
	if resp == nil || resp.StatusCode != http.StatusOK {
		return false
	}
	for _, d := range directives(resp.Header) {
		if d == "no-store" || d == "private" {
			return false
		}
	}
	return true
}

// FromResponse reads resp into an entry and leaves resp.Body readable.
func FromResponse(resp *http.Response) (*Entry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	now := time.Now()
	entry := &Entry{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		ETag:        resp.Header.Get("ETag"),
		FreshUntil:  freshUntil(resp.Header, now),
		StoredAt:    now,
	}
	if lm, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
		entry.LastModified = lm
	}

	return entry, nil
}

// freshUntil computes the end of freshness: max-age first, then Expires,
// then DefaultTTL. max-age=0 or a past Expires yields now.
func freshUntil(h http.Header, now time.Time) time.Time {
	for _, d := range directives(h) {
		if v, ok := strings.CutPrefix(d, "max-age="); ok {
			if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
				return now.Add(time.Duration(secs) * time.Second)
			}
		}
	}

	expires, err := http.ParseTime(h.Get("Expires"))
	switch {
	case err != nil:
		return now.Add(DefaultTTL)
	case expires.Before(now):
		return now
	default:
		return expires
	}
}

func directives(h http.Header) []string {
	raw := h.Get("Cache-Control")
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		out = append(out, strings.ToLower(strings.TrimSpace(p)))
	}
	return out
}

package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Entry is a stored upstream body with its validators. Only 200 answers
// are stored, so the status is implied.
type Entry struct {
	Body         []byte    `json:"body"`
	ContentType  string    `json:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
	FreshUntil   time.Time `json:"fresh_until"`
	StoredAt     time.Time `json:"stored_at"`
}

// Fresh reports whether the entry can be served at now without asking upstream.
func (e *Entry) Fresh(now time.Time) bool {
	return now.Before(e.FreshUntil)
}

// Revalidatable reports whether a stale entry can be confirmed with a
// conditional request.
func (e *Entry) Revalidatable() bool {
	return e != nil && (e.ETag != "" || !e.LastModified.IsZero())
}

// retention is how long Redis keeps the entry. Entries without validators
// are dropped once stale.
func (e *Entry) retention(now time.Time) time.Duration {
	ttl := max(e.FreshUntil.Sub(now), 0)
	if e.Revalidatable() {
		ttl += RetainStale
	}
	return ttl
}

// ApplyValidators sets If-None-Match, or If-Modified-Since when the entry
// has no ETag.
func (e *Entry) ApplyValidators(req *http.Request) {
	if e == nil || req == nil {
		return
	}
	if req.Header == nil {
		req.Header = http.Header{}
	}
	switch {
	case e.ETag != "":
		req.Header.Set("If-None-Match", e.ETag)
	case !e.LastModified.IsZero():
		req.Header.Set("If-Modified-Since", e.LastModified.UTC().Format(http.TimeFormat))
	}
}

// Response rebuilds a 200 answer for req from the entry.
func (e *Entry) Response(req *http.Request) *http.Response {
	header := http.Header{}
	if e.ContentType != "" {
		header.Set("Content-Type", e.ContentType)
	}
	if e.ETag != "" {
		header.Set("ETag", e.ETag)
	}
	header.Set("X-Cache", "HIT")

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", http.StatusOK, http.StatusText(http.StatusOK)),
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/pokeapi-explorer/pkg/logging"
)

var (
	// ErrMiss is returned by Lookup when no entry is stored under the key.
	ErrMiss = errors.New("cache miss")

	// ErrCorrupt is returned for entries that no longer decode. They are evicted.
	ErrCorrupt = errors.New("corrupt cache entry")
)

// Store keeps upstream response entries in Redis.
type Store struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewStore creates a store backed by rdb.
func NewStore(rdb *redis.Client) *Store {
	if rdb == nil {
		panic("redis client cannot be nil")
	}
	return &Store{redis: rdb, logger: logging.NewLogger("cache")}
}

// Lookup returns the entry stored under key, fresh or stale.
// Callers check Fresh before serving it.
func (s *Store) Lookup(ctx context.Context, key Key) (*Entry, error) {
	raw, err := s.redis.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		lookupsTotal.WithLabelValues("miss").Inc()
		return nil, ErrMiss
	}
	if err != nil {
		errorsTotal.WithLabelValues("lookup").Inc()
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		errorsTotal.WithLabelValues("lookup").Inc()
		_ = s.Evict(ctx, key)
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	if entry.Fresh(time.Now()) {
		lookupsTotal.WithLabelValues("hit").Inc()
	} else {
		lookupsTotal.WithLabelValues("stale").Inc()
	}
	return &entry, nil
}

// Save stores entry under key. A stale entry without validators is not stored.
func (s *Store) Save(ctx context.Context, key Key, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}

	ttl := entry.retention(time.Now())
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		errorsTotal.WithLabelValues("save").Inc()
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.redis.Set(ctx, key.String(), raw, ttl).Err(); err != nil {
		errorsTotal.WithLabelValues("save").Inc()
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	bytesWrittenTotal.Add(float64(len(raw)))

	s.logger.Debug().
		Str("key", key.String()).
		Dur("ttl", ttl).
		Int("bytes", len(raw)).
		Msg("Stored upstream response")
	return nil
}

// Refresh extends a stale entry after upstream answered 304 Not Modified,
// taking the new freshness lifetime from the 304 headers.
func (s *Store) Refresh(ctx context.Context, key Key, entry *Entry, h http.Header) error {
	if entry == nil {
		return fmt.Errorf("cache entry cannot be nil")
	}
	RevalidationsTotal.WithLabelValues("not_modified").Inc()

	entry.FreshUntil = freshUntil(h, time.Now())
	if etag := h.Get("ETag"); etag != "" {
		entry.ETag = etag
	}
	return s.Save(ctx, key, entry)
}

// Evict removes the entry under key.
func (s *Store) Evict(ctx context.Context, key Key) error {
	if err := s.redis.Del(ctx, key.String()).Err(); err != nil {
		errorsTotal.WithLabelValues("evict").Inc()
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

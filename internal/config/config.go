// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	// PokeAPI
	BaseURL     string
	UserAgent   string
	HTTPTimeout time.Duration

	// Server
	Port      int
	LogLevel  string
	LogPretty bool

	// Paging
	PageSize         int
	TriggerPageSize  int
	BatchConcurrency int

	// Redis is optional. Empty disables the response cache and the request budget.
	// Accepts a redis:// URL or a plain host:port address.
	RedisURL string

	// RateLimit is the shared request budget per second (0 disables it)
	RateLimit int
}

// Load reads the configuration, loading an optional .env file first.
func Load() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL:     getEnv("POKEAPI_BASE_URL", "https://pokeapi.co/api/v2"),
		UserAgent:   getEnv("USER_AGENT", "pokeapi-explorer/0.1.0"),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		Port:      getEnvInt("PORT", 8080),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),

		PageSize:         getEnvInt("PAGE_SIZE", 20),
		TriggerPageSize:  getEnvInt("TRIGGER_PAGE_SIZE", 10),
		BatchConcurrency: getEnvInt("BATCH_CONCURRENCY", 5),

		RedisURL:  getEnv("REDIS_URL", ""),
		RateLimit: getEnvInt("RATE_LIMIT", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("POKEAPI_BASE_URL must be an absolute http(s) URL, got: %s", c.BaseURL)
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("USER_AGENT must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got: %s", c.HTTPTimeout)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got: %d", c.Port)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1, got: %d", c.PageSize)
	}
	if c.TriggerPageSize < 1 {
		return fmt.Errorf("TRIGGER_PAGE_SIZE must be at least 1, got: %d", c.TriggerPageSize)
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("BATCH_CONCURRENCY must be at least 1, got: %d", c.BatchConcurrency)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT must not be negative, got: %d", c.RateLimit)
	}
	if _, err := c.RedisOptions(); err != nil {
		return err
	}
	return nil
}

// RedisOptions returns the Redis connection options, or nil when Redis is disabled.
func (c *Config) RedisOptions() (*redis.Options, error) {
	if c.RedisURL == "" {
		return nil, nil
	}
	if strings.Contains(c.RedisURL, "://") {
		opts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL is invalid: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: c.RedisURL}, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

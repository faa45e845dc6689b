// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"strings"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects Redis when set, e.g. redis://localhost:6379/0
	RedisURL string

	// Prefix is the Redis key prefix
	Prefix string

	DefaultTTL      time.Duration
	MaxSize         int // memory only, 0 = unlimited
	CleanupInterval time.Duration
}

// Backend names reported by NewCache.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// NewCache creates a Redis cache when configured and reachable, otherwise an
// in-memory cache. A Redis failure is logged and falls back to memory so the
// dashboard keeps working.
func NewCache(cfg Config, logger *slog.Logger) (Cacher, string) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			logger.Info("using redis cache", "url", maskRedisURL(cfg.RedisURL), "prefix", cfg.Prefix)
			return rc, BackendRedis
		}
		logger.Warn("redis unavailable, falling back to memory cache",
			"url", maskRedisURL(cfg.RedisURL), "error", err, "category", "cache")
	}

	cleanup := cfg.CleanupInterval
	if cleanup == 0 {
		cleanup = time.Minute
	}
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cleanup,
	}), BackendMemory
}

// maskRedisURL hides credentials in a Redis URL for logging.
func maskRedisURL(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return url
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return url
	}
	return scheme + "://***" + rest[at:]
}

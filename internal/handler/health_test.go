// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kken7231/screensaver/internal/cache"
	"github.com/kken7231/screensaver/internal/version"
)

// unreachableCache is a memory cache whose remote end is down.
type unreachableCache struct {
	*cache.MemoryCache
}

func (unreachableCache) Ping(context.Context) error {
	return errors.New("dial tcp 127.0.0.1:6379: connection refused")
}

func getHealth(t *testing.T, h *HealthHandler) (int, HealthStatus) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	return rec.Code, status
}

func TestHealthHealthy(t *testing.T) {
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mc.Close() })
	h := NewHealthHandler(mc, "memory", version.Info{Version: "v1.2.3"})

	code, status := getHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "v1.2.3", status.Version)
	assert.Equal(t, "healthy", status.Checks["cache"].Status)
	assert.Equal(t, "memory", status.Checks["cache"].Message)
	assert.NotNil(t, status.Checks["cache"].Stats)
	assert.NotEmpty(t, status.System.GoVersion)
	assert.False(t, h.StartTime().IsZero())
}

func TestHealthDegraded(t *testing.T) {
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mc.Close() })
	h := NewHealthHandler(unreachableCache{mc}, "redis", version.Info{})

	code, status := getHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "dev", status.Version)
	assert.Equal(t, "unhealthy", status.Checks["cache"].Status)
	assert.Contains(t, status.Checks["cache"].Message, "connection refused")
	assert.NotEmpty(t, status.Checks["cache"].Latency)
}

func TestHealthWithoutCache(t *testing.T) {
	code, status := getHealth(t, NewHealthHandler(nil, "", version.Info{}))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "caching disabled", status.Checks["cache"].Message)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}

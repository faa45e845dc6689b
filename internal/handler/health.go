// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/kken7231/screensaver/internal/cache"
	"github.com/kken7231/screensaver/internal/version"
)

// pingTimeout bounds the cache health check.
const pingTimeout = 2 * time.Second

// HealthHandler handles health check requests.
type HealthHandler struct {
	cacher    cache.Cacher
	backend   string
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler. backend names the cache
// implementation in the report.
func NewHealthHandler(cacher cache.Cacher, backend string, info version.Info) *HealthHandler {
	return &HealthHandler{
		cacher:    cacher,
		backend:   backend,
		version:   info,
		startTime: time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    SystemInfo       `json:"system"`
}

// Check represents a single health check result.
type Check struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
	Stats   *cache.Stats `json:"stats,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health. A failing check turns the status to
// "degraded" and the response code to 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	cacheCheck := h.checkCache(r.Context())

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.String(),
		Checks:    map[string]Check{"cache": cacheCheck},
		System:    systemInfo(),
	}

	code := http.StatusOK
	if cacheCheck.Status != "healthy" {
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (h *HealthHandler) checkCache(ctx context.Context) Check {
	if h.cacher == nil {
		return Check{Status: "healthy", Message: "caching disabled"}
	}

	check := Check{Status: "healthy", Message: h.backend}
	if sp, ok := h.cacher.(cache.StatsProvider); ok {
		stats := sp.Stats()
		check.Stats = &stats
	}

	pinger, ok := h.cacher.(cache.Pinger)
	if !ok {
		return check
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := pinger.Ping(ctx)
	check.Latency = time.Since(start).String()
	if err != nil {
		check.Status = "unhealthy"
		check.Message = fmt.Sprintf("%s: %v", h.backend, err)
	}
	return check
}

func systemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes formats bytes into a human-readable string.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

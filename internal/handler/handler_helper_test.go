// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kken7231/screensaver/internal/cache"
	"github.com/kken7231/screensaver/internal/clock"
	"github.com/kken7231/screensaver/internal/layout"
	"github.com/kken7231/screensaver/internal/render"
	"github.com/kken7231/screensaver/internal/widget"
	"github.com/kken7231/screensaver/web"
)

const testLayout = `{
  "rows": 2,
  "cols": 4,
  "widgets": [
    {"type": "clock", "size": "middleh", "row": 1, "col": 1},
    {"type": "weatherforecast", "size": "small", "row": 1, "col": 3, "data": {"location_name": "Tokyo"}}
  ]
}`

// fakeWeather stands in for the weather provider.
type fakeWeather struct {
	calls atomic.Int32
	err   error
}

func (p *fakeWeather) Type() layout.WidgetType        { return layout.WeatherForecastWidget }
func (p *fakeWeather) Sizes() []layout.WidgetSize     { return []layout.WidgetSize{layout.Small} }
func (p *fakeWeather) ShowUpdateButton() bool         { return true }
func (p *fakeWeather) CheckData(map[string]any) error { return nil }
func (p *fakeWeather) Fetch(_ context.Context, q widget.Query) (widget.Document, error) {
	n := p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return widget.Document{
		"location_name": q.Get("location_name"),
		"current":       map[string]any{"temp": "21.5°", "weather_name": "Clear Sky"},
		"calls":         n,
		"lang":          q.Lang,
	}, nil
}

type testEnv struct {
	weather *fakeWeather
	cache   *cache.MemoryCache
	service *widget.Service
	layouts *layout.Store
	router  chi.Router
	logger  *slog.Logger
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEnv wires the widget and dashboard handlers against a temp layout
// directory. extra layout files are written next to default.json.
func newTestEnv(t *testing.T, extra ...string) *testEnv {
	t.Helper()
	logger := discardLogger()

	dir := t.TempDir()
	files := append([]string{"default"}, extra...)
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(testLayout), 0o600); err != nil {
			t.Fatalf("writing layout: %v", err)
		}
	}

	weather := &fakeWeather{}
	registry, err := widget.NewRegistry(clock.NewProvider(time.UTC), weather)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mc.Close() })
	service := widget.NewService(registry, mc, time.Minute, "en", logger)
	store := layout.NewStore(dir, "default", registry, logger)

	renderer, err := render.New(render.Config{TemplatesFS: web.Templates, Logger: logger})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	dashboard := NewDashboardHandler(renderer, store, service, DashboardConfig{DefaultLang: "en", Live: true}, logger)
	widgets := NewWidgetHandler(service, logger)
	layouts := NewLayoutsHandler(store, logger)

	r := chi.NewRouter()
	r.Get(RouteRoot, dashboard.Index)
	r.Get(RouteSnapshot, dashboard.Snapshot)
	r.Get(RouteLayouts, layouts.List)
	r.Get(RouteLayoutName, layouts.Get)
	r.Get(RouteWidgetData, widgets.Data)
	r.Post(RouteWidgetRefresh, widgets.Refresh)

	return &testEnv{
		weather: weather,
		cache:   mc,
		service: service,
		layouts: store,
		router:  r,
		logger:  logger,
	}
}

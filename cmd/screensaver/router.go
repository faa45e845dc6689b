// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kken7231/screensaver/internal/cache"
	"github.com/kken7231/screensaver/internal/config"
	"github.com/kken7231/screensaver/internal/handler"
	"github.com/kken7231/screensaver/internal/layout"
	"github.com/kken7231/screensaver/internal/live"
	"github.com/kken7231/screensaver/internal/logging"
	"github.com/kken7231/screensaver/internal/middleware"
	"github.com/kken7231/screensaver/internal/render"
	"github.com/kken7231/screensaver/internal/scheduler"
	"github.com/kken7231/screensaver/internal/theme"
	"github.com/kken7231/screensaver/internal/version"
	"github.com/kken7231/screensaver/internal/widget"
	"github.com/kken7231/screensaver/web"
)

type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	journal  *logging.Journal
	cacher   cache.Cacher
	backend  string
	renderer *render.Renderer
	service  *widget.Service
	layouts  *layout.Store
	themes   *theme.Manager
	hub      *live.Hub
	sched    *scheduler.Scheduler
	version  version.Info
}

func newRouter(d routerDeps) chi.Router {
	cfg := d.cfg

	dashboardHandler := handler.NewDashboardHandler(d.renderer, d.layouts, d.service, handler.DashboardConfig{
		DefaultLang:         cfg.Lang,
		Live:                d.hub != nil,
		SnapshotConcurrency: cfg.SnapshotConcurrency,
	}, d.logger)
	widgetHandler := handler.NewWidgetHandler(d.service, d.logger)
	layoutsHandler := handler.NewLayoutsHandler(d.layouts, d.logger)
	themeHandler := handler.NewThemeHandler(d.themes)
	healthHandler := handler.NewHealthHandler(d.cacher, d.backend, d.version)
	diagnosticsHandler := handler.NewDiagnosticsHandler(d.journal, d.sched, d.logger)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// The WebSocket handshake stays outside compression and timeouts.
	if d.hub != nil {
		r.Get(handler.RouteLive, d.hub.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))                    // Gzip compression with level 5
		r.Use(chimw.GetHead)                        // Handle HEAD requests for uptime monitoring
		r.Use(middleware.Timeout(30 * time.Second)) // 30 second request timeout
		r.Use(middleware.StripTrailingSlash)        // Redirect /path/ to /path (301)
		r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Language(cfg.Lang))
			r.Get(handler.RouteRoot, dashboardHandler.Index)
			r.Get(handler.RouteSnapshot, dashboardHandler.Snapshot)
		})

		r.Group(func(r chi.Router) {
			if cfg.APIRateLimit > 0 {
				r.Use(middleware.NewRateLimiter(cfg.APIRateLimit, cfg.APIRateBurst, d.logger).Middleware)
			}
			r.Use(middleware.NoStore)
			r.Get(handler.RouteWidgetData, widgetHandler.Data)
			r.Post(handler.RouteWidgetRefresh, widgetHandler.Refresh)
			r.Get(handler.RouteLayouts, layoutsHandler.List)
			r.Get(handler.RouteLayoutName, layoutsHandler.Get)
			r.Get(handler.RouteHealth, healthHandler.Health)
			r.Get(handler.RouteDiagnostics, diagnosticsHandler.List)
			r.Post(handler.RouteJobRun, diagnosticsHandler.RunJob)
		})

		r.Get(handler.RouteThemeCSS, themeHandler.CSS)

		staticMaxAge := 86400 // 1 day
		if cfg.IsDevelopment() {
			staticMaxAge = 0
		}
		r.Handle(handler.RouteStatic, middleware.StaticCache(staticMaxAge)(
			http.StripPrefix("/static/", http.FileServer(http.FS(web.Static))),
		))
	})

	return r
}

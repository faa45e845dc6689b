// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kken7231/screensaver/internal/cache"
	"github.com/kken7231/screensaver/internal/clock"
	"github.com/kken7231/screensaver/internal/config"
	"github.com/kken7231/screensaver/internal/i18n"
	"github.com/kken7231/screensaver/internal/layout"
	"github.com/kken7231/screensaver/internal/live"
	"github.com/kken7231/screensaver/internal/logging"
	"github.com/kken7231/screensaver/internal/notion"
	"github.com/kken7231/screensaver/internal/render"
	"github.com/kken7231/screensaver/internal/scheduler"
	"github.com/kken7231/screensaver/internal/theme"
	"github.com/kken7231/screensaver/internal/version"
	"github.com/kken7231/screensaver/internal/weather"
	"github.com/kken7231/screensaver/internal/widget"
	"github.com/kken7231/screensaver/web"
)

// refreshJobName is the scheduled job that refreshes every widget.
const refreshJobName = "refresh-widgets"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Start the dashboard HTTP server.

The server provides:
- the layout page at / and a server-side hydrated copy at /snapshot
- widget data at /api/{type}
- the generated colour scheme at /theme.css
- refresh notices over WebSocket at /ws`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// WARN and ERROR records are also kept for /debug/diagnostics.
	journal := logging.NewJournal(logging.DefaultJournalSize)
	logger := logging.New(os.Stdout, cfg.LogLevel, journal)
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	loc, err := time.LoadLocation(cfg.WeatherTimezone)
	if err != nil {
		return fmt.Errorf("loading timezone %q: %w", cfg.WeatherTimezone, err)
	}

	cacher, backend := cache.NewCache(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() {
		if err := cacher.Close(); err != nil {
			logger.Error("error closing cache", "error", err)
		}
	}()
	logger.Info("cache initialized", "backend", backend, "ttl", cfg.CacheTTLDuration())

	renderer, err := render.New(render.Config{
		TemplatesFS: web.Templates,
		IsDev:       cfg.IsDevelopment(),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	registry, err := newRegistry(cfg, renderer, loc, logger)
	if err != nil {
		return fmt.Errorf("registering widgets: %w", err)
	}
	service := widget.NewService(registry, cacher, cfg.CacheTTLDuration(), cfg.Lang, logger)

	layouts := layout.NewStore(cfg.LayoutsDir, cfg.DefaultLayout, registry, logger)
	if _, err := layouts.Load(""); err != nil {
		logger.Warn("default layout is not usable", "name", cfg.DefaultLayout, "dir", cfg.LayoutsDir, "error", err)
	}

	themes := theme.NewManager(logger)
	if err := themes.Load(cfg.ThemeSeed, cfg.ThemeCustomColors); err != nil {
		return fmt.Errorf("loading theme: %w", err)
	}

	hub := live.NewHub(logger, nil)

	sched := scheduler.New(logger)
	if cfg.RefreshSchedule != "" {
		if err := sched.Add(refreshJobName, cfg.RefreshSchedule, refreshWidgets(layouts, service, hub, logger)); err != nil {
			return fmt.Errorf("scheduling widget refresh: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	router := newRouter(routerDeps{
		cfg:      cfg,
		logger:   logger,
		journal:  journal,
		cacher:   cacher,
		backend:  backend,
		renderer: renderer,
		service:  service,
		layouts:  layouts,
		themes:   themes,
		hub:      hub,
		sched:    sched,
		version:  version.Get(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	// Shutdown does not touch hijacked connections.
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// newRegistry registers the widget providers. The Notion calendar needs
// credentials and is skipped without them.
func newRegistry(cfg *config.Config, renderer *render.Renderer, loc *time.Location, logger *slog.Logger) (*widget.Registry, error) {
	upstream := &http.Client{Timeout: cfg.UpstreamTimeout}

	weatherProvider, err := weather.NewProvider(
		weather.NewClient(cfg.WeatherForecastURL, cfg.AmedasURL, cfg.WeatherTimezone, upstream),
		renderer,
		logger,
	)
	if err != nil {
		return nil, err
	}
	providers := []widget.Provider{clock.NewProvider(loc), weatherProvider}

	if cfg.NotionEnabled() {
		client := notion.NewClient(notion.Config{
			APIKey:           cfg.NotionAPIKey,
			DatabaseID:       cfg.NotionDatabaseID,
			Version:          cfg.NotionVersion,
			NameProperty:     cfg.NotionNameProperty,
			DateProperty:     cfg.NotionDateProperty,
			CategoryProperty: cfg.NotionCategoryProperty,
			CategoryValue:    cfg.NotionCategoryValue,
			RateLimit:        cfg.NotionRateLimit,
			HTTPClient:       upstream,
		})
		providers = append(providers, notion.NewProvider(client, renderer, loc, logger))
	} else {
		logger.Info("notion calendar disabled", "reason", "SCREENSAVER_NOTION_API_KEY or SCREENSAVER_NOTION_DATABASE_ID not set")
	}

	registry, err := widget.NewRegistry(providers...)
	if err != nil {
		return nil, err
	}
	logger.Info("widgets registered", "types", registry.Types())
	return registry, nil
}

// refreshWidgets returns the job that refetches every widget of every layout
// and tells open pages to rebind them. Widgets shared between layouts are
// fetched and announced once.
func refreshWidgets(layouts *layout.Store, service *widget.Service, hub *live.Hub, logger *slog.Logger) scheduler.Job {
	return func(ctx context.Context) error {
		all, err := layouts.LoadAll()
		if err != nil {
			return err
		}

		results := make(map[string]error)
		sent := make(map[string]bool)
		refreshed, failed, notified := 0, 0, 0
		for _, l := range all {
			for _, w := range l.Widgets {
				key := string(w.Type) + "?" + w.Query()
				err, done := results[key]
				if !done {
					_, err = service.Refresh(ctx, string(w.Type), w.Query())
					results[key] = err
					if err != nil {
						failed++
						logger.Warn("widget refresh failed", "layout", l.Name, "widget_id", w.ID(), "error", err, "category", "widget")
					} else {
						refreshed++
					}
				}
				if err != nil || sent[w.ID()+"?"+w.Query()] {
					continue
				}
				sent[w.ID()+"?"+w.Query()] = true
				notified += hub.Broadcast(live.RefreshMessage(w))
			}
		}

		logger.Debug("widgets refreshed", "refreshed", refreshed, "failed", failed, "notified", notified)
		if failed > 0 {
			return fmt.Errorf("%d of %d widgets failed to refresh", failed, len(results))
		}
		return nil
	}
}

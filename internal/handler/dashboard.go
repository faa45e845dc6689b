// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/net/html"

	"github.com/kken7231/screensaver/internal/binding"
	"github.com/kken7231/screensaver/internal/layout"
	"github.com/kken7231/screensaver/internal/middleware"
	"github.com/kken7231/screensaver/internal/render"
	"github.com/kken7231/screensaver/internal/widget"
)

// DashboardHandler renders layout pages.
type DashboardHandler struct {
	renderer    *render.Renderer
	layouts     *layout.Store
	service     *widget.Service
	defaultLang string
	live        bool
	concurrency int
	logger      *slog.Logger
}

// DashboardConfig holds dashboard handler configuration.
type DashboardConfig struct {
	DefaultLang string
	// Live makes pages subscribe to refresh notices.
	Live bool
	// SnapshotConcurrency bounds widget fetches while hydrating a snapshot.
	SnapshotConcurrency int
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(renderer *render.Renderer, layouts *layout.Store, service *widget.Service, cfg DashboardConfig, logger *slog.Logger) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardHandler{
		renderer:    renderer,
		layouts:     layouts,
		service:     service,
		defaultLang: cfg.DefaultLang,
		live:        cfg.Live,
		concurrency: cfg.SnapshotConcurrency,
		logger:      logger,
	}
}

// Index handles GET /. The layout is picked with ?layout=, the page script
// fills every widget.
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	data, ok := h.page(w, r)
	if !ok {
		return
	}
	data.Live = h.live

	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, data); err != nil {
		logAndInternalError(w, h.logger, LogRenderFailed, "layout", data.Layout, "error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Snapshot handles GET /snapshot: the same page with every widget already
// bound server side and no script.
func (h *DashboardHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	data, ok := h.page(w, r)
	if !ok {
		return
	}
	data.Snapshot = true

	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, data); err != nil {
		logAndInternalError(w, h.logger, LogRenderFailed, "layout", data.Layout, "error", err)
		return
	}
	root, err := html.Parse(&buf)
	if err != nil {
		logAndInternalError(w, h.logger, LogRenderFailed, "layout", data.Layout, "error", err)
		return
	}

	binder := binding.NewBinder(binding.WithSanitizer(render.MarkupPolicy()), binding.WithLogger(h.logger))
	fetcher := serviceFetcher{service: h.service, lang: data.Lang, logger: h.logger}
	updater := binding.NewUpdater(fetcher, binder, h.logger, h.concurrency)

	failed := 0
	for _, o := range updater.UpdateAll(r.Context(), root, binding.DiscoverWidgets(root)) {
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		h.logger.Warn("snapshot has unbound widgets", "layout", data.Layout, "failed", failed, "category", "binder")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := html.Render(w, root); err != nil {
		h.logger.Error(LogRenderFailed, "layout", data.Layout, "error", err)
	}
}

// page loads the requested layout and builds the page data. It writes the
// error response itself and returns false on failure.
func (h *DashboardHandler) page(w http.ResponseWriter, r *http.Request) (render.PageData, bool) {
	l, err := h.layouts.Load(r.URL.Query().Get(ParamLayout))
	if err != nil {
		switch {
		case errors.Is(err, layout.ErrLayoutNotFound):
			http.Error(w, "Layout not found", http.StatusNotFound)
		case errors.Is(err, layout.ErrInvalidName):
			http.Error(w, "Invalid layout name", http.StatusBadRequest)
		default:
			logAndInternalError(w, h.logger, "failed to load layout", "error", err)
		}
		return render.PageData{}, false
	}

	lang := middleware.GetLanguage(r, h.defaultLang)
	data := h.renderer.BuildPage(l, h.service.Registry(), lang)
	if names, err := h.layouts.List(); err != nil {
		h.logger.Warn("failed to list layouts", "error", err, "category", "layout")
	} else if len(names) > 1 {
		data.Layouts = names
	}
	return data, true
}

// serviceFetcher feeds the binder straight from the widget service. The
// document goes through JSON so the binder sees what a browser would, and
// failures become the error documents the HTTP endpoint returns.
type serviceFetcher struct {
	service *widget.Service
	lang    string
	logger  *slog.Logger
}

func (f serviceFetcher) Fetch(ctx context.Context, widgetType, query string) (binding.Value, error) {
	query = binding.WithLang(query, f.lang)
	var v any
	doc, err := f.service.Data(ctx, widgetType, query)
	if err != nil {
		msg := err.Error()
		if statusForError(err) == http.StatusInternalServerError {
			f.logger.Error(LogWidgetFailed, "widget_type", widgetType, "query", query, "error", err)
			msg = "failed to fetch widget data"
		}
		v = map[string]any{"success": false, "error": msg}
	} else {
		v = doc
	}

	data, err := json.Marshal(v)
	if err != nil {
		return binding.Value{}, err
	}
	return binding.DecodeBytes(data)
}

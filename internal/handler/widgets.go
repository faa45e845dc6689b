// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kken7231/screensaver/internal/widget"
)

// WidgetHandler serves widget documents under /api.
type WidgetHandler struct {
	service *widget.Service
	logger  *slog.Logger
}

// NewWidgetHandler creates a new widget handler.
func NewWidgetHandler(service *widget.Service, logger *slog.Logger) *WidgetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WidgetHandler{service: service, logger: logger}
}

// Data handles GET /api/{widgetType}. The body is the widget document
// itself; errors are {"success": false, "error": "..."}.
func (h *WidgetHandler) Data(w http.ResponseWriter, r *http.Request) {
	widgetType := chi.URLParam(r, "widgetType")
	doc, err := h.service.Data(r.Context(), widgetType, r.URL.RawQuery)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to fetch widget data",
			"widget_type", widgetType, "query", r.URL.RawQuery)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Refresh handles POST /api/{widgetType}/refresh, bypassing the cache.
func (h *WidgetHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	widgetType := chi.URLParam(r, "widgetType")
	doc, err := h.service.Refresh(r.Context(), widgetType, r.URL.RawQuery)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to refresh widget data",
			"widget_type", widgetType, "query", r.URL.RawQuery)
		return
	}
	h.logger.Info("widget refreshed", "widget_type", widgetType, "category", "widget")
	writeJSON(w, http.StatusOK, doc)
}

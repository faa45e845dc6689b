// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kken7231/screensaver/internal/layout"
)

// LayoutsHandler exposes the layout directory.
type LayoutsHandler struct {
	store  *layout.Store
	logger *slog.Logger
}

// NewLayoutsHandler creates a new layouts handler.
func NewLayoutsHandler(store *layout.Store, logger *slog.Logger) *LayoutsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LayoutsHandler{store: store, logger: logger}
}

// List handles GET /layouts.
func (h *LayoutsHandler) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.List()
	if err != nil {
		h.logger.Error("failed to list layouts", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list layouts")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSONSuccess(w, map[string]any{
		"layouts": names,
		"default": h.store.DefaultName(),
	})
}

// Get handles GET /layouts/{name}.
func (h *LayoutsHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.store.Load(chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load layout", "name", chi.URLParam(r, "name"))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

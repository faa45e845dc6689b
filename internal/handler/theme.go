// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"net/http"

	"github.com/kken7231/screensaver/internal/theme"
)

// ThemeHandler serves the generated colour scheme.
type ThemeHandler struct {
	manager *theme.Manager
}

// NewThemeHandler creates a new theme handler.
func NewThemeHandler(manager *theme.Manager) *ThemeHandler {
	return &ThemeHandler{manager: manager}
}

// CSS handles GET /theme.css. Conditional requests get a 304.
func (h *ThemeHandler) CSS(w http.ResponseWriter, r *http.Request) {
	css, etag, modTime := h.manager.CSS()
	if css == nil {
		http.Error(w, "Theme not loaded", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "theme.css", modTime, bytes.NewReader(css))
}

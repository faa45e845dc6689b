// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kken7231/screensaver/internal/layout"
	"github.com/kken7231/screensaver/internal/widget"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown type", widget.ErrUnknownWidgetType, http.StatusNotFound},
		{"layout not found", fmt.Errorf("%w: kitchen", layout.ErrLayoutNotFound), http.StatusNotFound},
		{"missing size", widget.ErrMissingSize, http.StatusBadRequest},
		{"invalid size", widget.ErrInvalidSize, http.StatusBadRequest},
		{"unsupported size", fmt.Errorf("clock: %w", widget.ErrUnsupportedSize), http.StatusBadRequest},
		{"invalid query", widget.ErrInvalidQuery, http.StatusBadRequest},
		{"invalid data", widget.ErrInvalidData, http.StatusBadRequest},
		{"invalid layout name", layout.ErrInvalidName, http.StatusBadRequest},
		{"upstream failure", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("client error shows message", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeServiceError(w, logger, widget.ErrMissingSize, "failed")

		if w.Code != http.StatusBadRequest {
			t.Errorf("status code = %d, want %d", w.Code, http.StatusBadRequest)
		}
		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if resp["error"] != widget.ErrMissingSize.Error() {
			t.Errorf("error = %v, want %q", resp["error"], widget.ErrMissingSize.Error())
		}
	})

	t.Run("internal error is hidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeServiceError(w, logger, errors.New("dial tcp: secret host"), "failed to fetch widget data")

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status code = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if resp["error"] != "failed to fetch widget data" {
			t.Errorf("error = %v, want generic message", resp["error"])
		}
	})
}

func TestLogAndInternalError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := httptest.NewRecorder()
	logAndInternalError(w, logger, "render failed", "error", errors.New("boom"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if w.Body.String() == "" {
		t.Error("body should not be empty")
	}
}

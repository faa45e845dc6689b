// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kken7231/screensaver/internal/layout"
	"github.com/kken7231/screensaver/internal/widget"
)

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, widget.ErrUnknownWidgetType),
		errors.Is(err, layout.ErrLayoutNotFound):
		return http.StatusNotFound
	case errors.Is(err, widget.ErrMissingSize),
		errors.Is(err, widget.ErrInvalidSize),
		errors.Is(err, widget.ErrUnsupportedSize),
		errors.Is(err, widget.ErrInvalidQuery),
		errors.Is(err, widget.ErrInvalidData),
		errors.Is(err, layout.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err as a JSON error. Internal errors are logged
// and hidden behind a generic message.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error, generic string, args ...any) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(LogWidgetFailed, append(args, "error", err)...)
		writeJSONError(w, status, generic)
		return
	}
	writeJSONError(w, status, err.Error())
}

// logAndHTTPError logs an error and writes a plain HTTP error response.
func logAndHTTPError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int, logMsg string, args ...any) {
	logger.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logger *slog.Logger, logMsg string, args ...any) {
	logAndHTTPError(w, logger, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

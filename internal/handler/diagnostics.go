// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kken7231/screensaver/internal/logging"
	"github.com/kken7231/screensaver/internal/scheduler"
)

// Jobs is the part of the scheduler the diagnostics page uses.
type Jobs interface {
	List() []scheduler.JobInfo
	TriggerNow(name string) error
}

// DiagnosticsHandler exposes recent warnings and scheduled jobs.
type DiagnosticsHandler struct {
	journal *logging.Journal
	jobs    Jobs
	logger  *slog.Logger
}

// NewDiagnosticsHandler creates a new diagnostics handler. jobs may be nil.
func NewDiagnosticsHandler(journal *logging.Journal, jobs Jobs, logger *slog.Logger) *DiagnosticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiagnosticsHandler{journal: journal, jobs: jobs, logger: logger}
}

// List handles GET /debug/diagnostics. Entries are newest first.
func (h *DiagnosticsHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := []logging.Entry{}
	if h.journal != nil {
		entries = h.journal.Entries()
	}
	jobs := []scheduler.JobInfo{}
	if h.jobs != nil {
		jobs = h.jobs.List()
	}
	writeJSONSuccess(w, map[string]any{
		"entries": entries,
		"jobs":    jobs,
	})
}

// RunJob handles POST /debug/jobs/{name}/run.
func (h *DiagnosticsHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		writeJSONError(w, http.StatusNotFound, "scheduler disabled")
		return
	}
	name := chi.URLParam(r, "name")
	err := h.jobs.TriggerNow(name)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, scheduler.ErrTriggerThrottled):
		w.Header().Set("Retry-After", "10")
		writeJSONError(w, http.StatusTooManyRequests, err.Error())
	case err != nil:
		h.logger.Error("failed to trigger job", "name", name, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to trigger job")
	default:
		writeJSON(w, http.StatusAccepted, map[string]any{"success": true, "job": name})
	}
}

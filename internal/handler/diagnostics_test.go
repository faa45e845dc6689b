// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/kken7231/screensaver/internal/logging"
	"github.com/kken7231/screensaver/internal/scheduler"
)

type fakeJobs struct {
	triggered []string
	err       error
}

func (f *fakeJobs) List() []scheduler.JobInfo {
	return []scheduler.JobInfo{{Name: "refresh-widgets", Schedule: "*/10 * * * *"}}
}

func (f *fakeJobs) TriggerNow(name string) error {
	if f.err != nil {
		return f.err
	}
	f.triggered = append(f.triggered, name)
	return nil
}

func diagnosticsRouter(h *DiagnosticsHandler) chi.Router {
	r := chi.NewRouter()
	r.Get(RouteDiagnostics, h.List)
	r.Post(RouteJobRun, h.RunJob)
	return r
}

func TestDiagnosticsList(t *testing.T) {
	journal := logging.NewJournal(10)
	journal.Add(logging.Entry{Time: time.Now(), Level: "WARN", Category: "binder", Message: "first"})
	journal.Add(logging.Entry{Time: time.Now(), Level: "ERROR", Category: "widget", Message: "second"})
	r := diagnosticsRouter(NewDiagnosticsHandler(journal, &fakeJobs{}, discardLogger()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/diagnostics", nil))
	resp := assertJSONResponse(t, rec, http.StatusOK, true)

	entries := resp["entries"].([]any)
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "second", entries[0].(map[string]any)["message"])
		assert.NotEmpty(t, entries[0].(map[string]any)["id"])
	}
	jobs := resp["jobs"].([]any)
	if assert.Len(t, jobs, 1) {
		assert.Equal(t, "refresh-widgets", jobs[0].(map[string]any)["name"])
	}
}

func TestDiagnosticsListEmpty(t *testing.T) {
	r := diagnosticsRouter(NewDiagnosticsHandler(nil, nil, discardLogger()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/diagnostics", nil))
	resp := assertJSONResponse(t, rec, http.StatusOK, true)
	assert.Equal(t, []any{}, resp["entries"])
	assert.Equal(t, []any{}, resp["jobs"])
}

func TestRunJob(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"accepted", nil, http.StatusAccepted},
		{"unknown job", fmt.Errorf("%w: nope", scheduler.ErrJobNotFound), http.StatusNotFound},
		{"throttled", fmt.Errorf("%w: refresh-widgets", scheduler.ErrTriggerThrottled), http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := &fakeJobs{err: tt.err}
			r := diagnosticsRouter(NewDiagnosticsHandler(nil, jobs, discardLogger()))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug/jobs/refresh-widgets/run", nil))
			assertJSONResponse(t, rec, tt.wantStatus, tt.err == nil)
			if tt.err == nil {
				assert.Equal(t, []string{"refresh-widgets"}, jobs.triggered)
			}
		})
	}
}

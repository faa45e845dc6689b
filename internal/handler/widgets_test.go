// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kken7231/screensaver/internal/widget"
)

func (e *testEnv) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func TestWidgetDataCached(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodGet, "/api/weatherforecast?size=small&location_name=Tokyo")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		body := decodeBody(t, rec)
		assert.Equal(t, "Tokyo", body["location_name"])
		assert.Equal(t, "en", body["lang"])
		assert.NotContains(t, body, "success")
	}
	assert.Equal(t, int32(1), env.weather.calls.Load())
}

func TestWidgetRefreshBypassesCache(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/weatherforecast?size=small").Code)
	rec := env.do(http.MethodPost, "/api/weatherforecast/refresh?size=small")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decodeBody(t, rec)["calls"])

	// The refreshed document replaces the cached one.
	rec = env.do(http.MethodGet, "/api/weatherforecast?size=small")
	assert.EqualValues(t, 2, decodeBody(t, rec)["calls"])
	assert.Equal(t, int32(2), env.weather.calls.Load())
}

func TestWidgetLanguageFromQuery(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/clock?size=middleh&lang=JP")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ja", decodeBody(t, rec)["lang"])
}

func TestWidgetErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		providerEr error
		wantStatus int
		wantError  string
	}{
		{name: "unknown type", target: "/api/stocks?size=small", wantStatus: http.StatusNotFound},
		{name: "missing size", target: "/api/weatherforecast", wantStatus: http.StatusBadRequest,
			wantError: widget.ErrMissingSize.Error()},
		{name: "invalid size", target: "/api/weatherforecast?size=huge", wantStatus: http.StatusBadRequest},
		{name: "unsupported size", target: "/api/weatherforecast?size=middlev", wantStatus: http.StatusBadRequest},
		{name: "bad query from provider", target: "/api/weatherforecast?size=small",
			providerEr: fmt.Errorf("%w: location_latitude is required", widget.ErrInvalidQuery),
			wantStatus: http.StatusBadRequest},
		{name: "upstream failure", target: "/api/weatherforecast?size=small",
			providerEr: errors.New("unexpected status 502"),
			wantStatus: http.StatusInternalServerError, wantError: "failed to fetch widget data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.weather.err = tt.providerEr

			rec := env.do(http.MethodGet, tt.target)
			resp := assertJSONResponse(t, rec, tt.wantStatus, false)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp["error"])
			}
			assert.NotEmpty(t, resp["error"])
		})
	}
}

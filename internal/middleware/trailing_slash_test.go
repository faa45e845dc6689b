// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripTrailingSlash(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		wantCode int
		wantLoc  string
	}{
		{"root untouched", http.MethodGet, "/", http.StatusOK, ""},
		{"no slash untouched", http.MethodGet, "/api/clock", http.StatusOK, ""},
		{"get redirects", http.MethodGet, "/api/clock/", http.StatusMovedPermanently, "/api/clock"},
		{"keeps query", http.MethodGet, "/api/clock/?size=middleh", http.StatusMovedPermanently, "/api/clock?size=middleh"},
		{"post keeps method", http.MethodPost, "/api/clock/refresh/", http.StatusPermanentRedirect, "/api/clock/refresh"},
		{"multiple slashes", http.MethodGet, "/layouts///", http.StatusMovedPermanently, "/layouts"},
		{"no scheme relative", http.MethodGet, "//evil.example/", http.StatusMovedPermanently, "/evil.example"},
	}

	h := StripTrailingSlash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLoc {
				t.Errorf("Location = %q, want %q", got, tt.wantLoc)
			}
		})
	}
}

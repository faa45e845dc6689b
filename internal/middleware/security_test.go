// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{name: "production mode enables HSTS", isDev: false, wantHSTS: true},
		{name: "development mode disables HSTS", isDev: true, wantHSTS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS && hsts != "max-age=31536000" {
				t.Errorf("HSTS = %q, want max-age=31536000", hsts)
			}
			if !tt.wantHSTS && hsts != "" {
				t.Errorf("expected no HSTS header but got: %s", hsts)
			}
			if got := rec.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
				t.Errorf("X-Frame-Options = %q, want SAMEORIGIN", got)
			}
			if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
			}
			if got := rec.Header().Get("Referrer-Policy"); got != "strict-origin-when-cross-origin" {
				t.Errorf("Referrer-Policy = %q", got)
			}
		})
	}
}

func TestDefaultCSPAllowsDashboard(t *testing.T) {
	csp := DefaultSecurityHeadersConfig(false).ContentSecurityPolicy

	for _, want := range []string{
		"default-src 'self'",
		"script-src 'self'",
		"connect-src 'self' ws: wss:",
		"font-src 'self' https://fonts.gstatic.com",
		"object-src 'none'",
	} {
		if !strings.Contains(csp, want) {
			t.Errorf("CSP %q missing %q", csp, want)
		}
	}
	if !strings.HasPrefix(csp, "default-src") {
		t.Errorf("CSP should start with default-src, got %q", csp)
	}
	if strings.Contains(csp, "unsafe-eval") {
		t.Errorf("CSP must not allow eval: %q", csp)
	}
}

func TestBuildCSPOrder(t *testing.T) {
	got := buildCSP(map[string]string{
		"zz-custom":   "a",
		"script-src":  "'self'",
		"default-src": "'none'",
		"aa-custom":   "b",
	})
	want := "default-src 'none'; script-src 'self'; aa-custom b; zz-custom a"
	if got != want {
		t.Errorf("buildCSP() = %q, want %q", got, want)
	}
}

func TestBuildPermissionsPolicySorted(t *testing.T) {
	got := buildPermissionsPolicy(map[string]string{
		"usb":        "()",
		"camera":     "()",
		"fullscreen": "(self)",
	})
	want := "camera=(), fullscreen=(self), usb=()"
	if got != want {
		t.Errorf("buildPermissionsPolicy() = %q, want %q", got, want)
	}
}

func TestSecurityHeadersExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/ws"}
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if got := rec.Header().Get("Content-Security-Policy"); got != "" {
		t.Errorf("excluded path got CSP %q", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("expected CSP on /")
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// assertJSONResponse validates common JSON response properties.
func assertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantSuccess bool) map[string]any {
	t.Helper()

	if w.Code != wantStatus {
		t.Errorf("status code = %d, want %d", w.Code, wantStatus)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if success, ok := resp["success"].(bool); !ok || success != wantSuccess {
		t.Errorf("success = %v, want %v", resp["success"], wantSuccess)
	}

	return resp
}

func TestWriteJSONError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		message    string
	}{
		{"bad request", http.StatusBadRequest, "please provide size information"},
		{"not found", http.StatusNotFound, "unknown widget type"},
		{"internal error", http.StatusInternalServerError, "failed to fetch widget data"},
		{"empty message", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeJSONError(w, tt.statusCode, tt.message)

			resp := assertJSONResponse(t, w, tt.statusCode, false)
			if errMsg, ok := resp["error"].(string); !ok || errMsg != tt.message {
				t.Errorf("error = %q, want %q", resp["error"], tt.message)
			}
		})
	}
}

func TestWriteJSONSuccess(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{name: "with data", data: map[string]any{"layouts": []string{"default"}, "default": "default"}},
		{name: "nil data", data: nil},
		{name: "empty map", data: map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeJSONSuccess(w, tt.data)

			resp := assertJSONResponse(t, w, http.StatusOK, true)
			for key := range tt.data {
				if _, ok := resp[key]; !ok {
					t.Errorf("missing key %q in response", key)
				}
			}
		})
	}
}

func TestWriteJSONSuccessOverwritesSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSONSuccess(w, map[string]any{"success": false, "name": "default"})
	assertJSONResponse(t, w, http.StatusOK, true)
}

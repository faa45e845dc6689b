// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestInit(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if TranslationCount("en") == 0 {
		t.Error("Expected English translations to be loaded")
	}
	if TranslationCount("ja") == 0 {
		t.Error("Expected Japanese translations to be loaded")
	}
	if TranslationCount("fr") != 0 {
		t.Error("Expected no French translations")
	}
}

func TestT(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		lang     string
		key      string
		args     []any
		expected string
	}{
		{"en", "weekday.0", nil, "Sunday"},
		{"ja", "weekday.0", nil, "日曜日"},
		{"en", "era.reiwa", nil, "Reiwa"},
		{"ja", "era.reiwa", nil, "令和"},
		{"en", "weather.code.95", nil, "Slight or Moderate Thunderstorm"},
		{"ja", "weather.code.0", nil, "晴天"},
		{"en", "date.month_day", []any{"May", 1}, "May 1"},
		{"ja", "date.month_day", []any{"5月", 1}, "5月1日"},
		// Fallback to English for unknown language
		{"de", "weekday.1", nil, "Monday"},
		// Return key if not found
		{"en", "nonexistent.key", nil, "nonexistent.key"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"_"+tt.key, func(t *testing.T) {
			result := T(tt.lang, tt.key, tt.args...)
			if result != tt.expected {
				t.Errorf("T(%q, %q, %v) = %q, want %q", tt.lang, tt.key, tt.args, result, tt.expected)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("ja", "weather.code.1234"); ok {
		t.Error("expected unknown weather code to be missing")
	}
	if s, ok := Lookup("ja", "calendar.no_events"); !ok || s != "予定なし" {
		t.Errorf("Lookup(ja, calendar.no_events) = %q, %v", s, ok)
	}
}

func TestMatchLanguage(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"ja", "ja"},
		{"JP", "ja"},
		{"EN", "en"},
		{"ja-JP", "ja"},
		{"en-US,en;q=0.9", "en"},
		{"ja,en;q=0.5", "ja"},
		{"fr", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := MatchLanguage(tt.input); result != tt.expected {
				t.Errorf("MatchLanguage(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	tests := map[string]bool{"en": true, "EN": true, "ja": true, "ru": false, "": false}
	for lang, want := range tests {
		if got := IsSupported(lang); got != want {
			t.Errorf("IsSupported(%q) = %v, want %v", lang, got, want)
		}
	}
}

func TestLocaleFilesHaveSameKeys(t *testing.T) {
	keys := make(map[string]map[string]bool)
	for _, lang := range SupportedLanguages {
		data, err := localesFS.ReadFile(fmt.Sprintf("locales/%s/messages.json", lang))
		if err != nil {
			t.Fatalf("failed to read %s: %v", lang, err)
		}
		var mf MessageFile
		if err := json.Unmarshal(data, &mf); err != nil {
			t.Fatalf("failed to parse %s: %v", lang, err)
		}
		if mf.Language != lang {
			t.Errorf("%s file declares language %q", lang, mf.Language)
		}
		keys[lang] = make(map[string]bool)
		for _, m := range mf.Messages {
			if keys[lang][m.ID] {
				t.Errorf("%s: duplicate key %s", lang, m.ID)
			}
			keys[lang][m.ID] = true
		}
	}

	for key := range keys["en"] {
		if !keys["ja"][key] {
			t.Errorf("key %s missing from ja", key)
		}
	}
	for key := range keys["ja"] {
		if !keys["en"][key] {
			t.Errorf("key %s missing from en", key)
		}
	}
}

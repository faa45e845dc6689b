// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import "testing"

func TestGetDefaults(t *testing.T) {
	info := Get()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.GitCommit != "unknown" || info.BuildTime != "unknown" {
		t.Errorf("Get() = %+v, want unknown commit and build time", info)
	}
}

func TestInfoString(t *testing.T) {
	if got := (Info{}).String(); got != "dev" {
		t.Errorf("zero value String() = %q, want dev", got)
	}
	if got := (Info{Version: "v1.0.0"}).String(); got != "v1.0.0" {
		t.Errorf("String() = %q, want v1.0.0", got)
	}
}

func TestInfoLong(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc1234",
		BuildTime: "2025-01-30T12:00:00Z",
	}
	want := "screensaver v1.0.0 (commit: abc1234, built: 2025-01-30T12:00:00Z)"
	if got := info.Long(); got != want {
		t.Errorf("Long() = %q, want %q", got, want)
	}
}

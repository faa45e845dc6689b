// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Injected at build time via ldflags:
//
//	-X github.com/kken7231/screensaver/internal/version.version=v1.2.3
var (
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// Info contains build-time version information.
type Info struct {
	Version   string `json:"version"`    // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string `json:"git_commit"` // Short git commit hash (e.g., "abc1234")
	BuildTime string `json:"build_time"` // Build timestamp in RFC3339 format
}

// Get returns the version of the running binary.
func Get() Info {
	return Info{Version: version, GitCommit: gitCommit, BuildTime: buildTime}
}

// String returns the version, or "dev" before ldflags injection.
func (i Info) String() string {
	if i.Version == "" {
		return "dev"
	}
	return i.Version
}

// Long returns the version with commit and build time.
func (i Info) Long() string {
	return fmt.Sprintf("screensaver %s (commit: %s, built: %s)", i.String(), i.GitCommit, i.BuildTime)
}

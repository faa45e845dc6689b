// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a config string to a slog level. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the application logger: a text handler on w, mirrored into
// journal for WARN and above. A nil journal disables mirroring.
func New(w io.Writer, level string, journal *Journal) *slog.Logger {
	var handler slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	if journal != nil {
		handler = NewDiagnosticHandler(handler, journal)
	}
	return slog.New(handler)
}

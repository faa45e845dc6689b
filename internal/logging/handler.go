// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a custom slog handler that keeps recent warnings
// and errors in memory so they can be inspected over HTTP.
package logging

import (
	"context"
	"log/slog"
	"strings"
)

// Diagnostic categories.
const (
	CategoryBinder   = "binder"
	CategoryUpstream = "upstream"
	CategoryWidget   = "widget"
	CategoryLayout   = "layout"
	CategoryCache    = "cache"
	CategorySystem   = "system"
)

// DiagnosticHandler is a slog.Handler that wraps another handler and also
// records WARN and ERROR level logs in a Journal.
type DiagnosticHandler struct {
	inner   slog.Handler
	journal *Journal
	level   slog.Level // Minimum level to record (default: WARN)
	attrs   []slog.Attr
	group   string
}

// NewDiagnosticHandler creates a DiagnosticHandler that wraps the given handler.
func NewDiagnosticHandler(inner slog.Handler, journal *Journal) *DiagnosticHandler {
	return NewDiagnosticHandlerWithLevel(inner, journal, slog.LevelWarn)
}

// NewDiagnosticHandlerWithLevel creates a DiagnosticHandler with a custom minimum level.
func NewDiagnosticHandlerWithLevel(inner slog.Handler, journal *Journal, level slog.Level) *DiagnosticHandler {
	return &DiagnosticHandler{
		inner:   inner,
		journal: journal,
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *DiagnosticHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *DiagnosticHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.record(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *DiagnosticHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		merged = append(merged, h.qualify(a))
	}
	return &DiagnosticHandler{
		inner:   h.inner.WithAttrs(attrs),
		journal: h.journal,
		level:   h.level,
		attrs:   merged,
		group:   h.group,
	}
}

// WithGroup implements slog.Handler.
func (h *DiagnosticHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &DiagnosticHandler{
		inner:   h.inner.WithGroup(name),
		journal: h.journal,
		level:   h.level,
		attrs:   h.attrs,
		group:   group,
	}
}

func (h *DiagnosticHandler) qualify(a slog.Attr) slog.Attr {
	if h.group == "" {
		return a
	}
	return slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
}

func (h *DiagnosticHandler) record(r slog.Record) {
	attrs := make(map[string]string, len(h.attrs)+r.NumAttrs())
	category := ""

	collect := func(a slog.Attr) {
		if a.Key == "category" {
			category = a.Value.String()
			return
		}
		attrs[a.Key] = a.Value.String()
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(h.qualify(a))
		return true
	})

	if category == "" {
		category = inferCategory(r.Message)
	}

	h.journal.Add(Entry{
		Time:     r.Time,
		Level:    levelName(r.Level),
		Category: category,
		Message:  r.Message,
		Attrs:    attrs,
	})
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	default:
		return "info"
	}
}

// inferCategory guesses a category from the message when none was attached.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "bind") || strings.Contains(msg, "target"):
		return CategoryBinder
	case strings.Contains(msg, "weather") || strings.Contains(msg, "notion") || strings.Contains(msg, "upstream"):
		return CategoryUpstream
	case strings.Contains(msg, "widget"):
		return CategoryWidget
	case strings.Contains(msg, "layout"):
		return CategoryLayout
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis"):
		return CategoryCache
	default:
		return CategorySystem
	}
}

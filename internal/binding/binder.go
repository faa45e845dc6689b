// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package binding

import (
	"log/slog"
)

// Sanitizer filters markup before it reaches a "wg-html" element.
// *bluemonday.Policy satisfies it.
type Sanitizer interface {
	Sanitize(s string) string
}

// Result describes what happened to one target.
type Result struct {
	ID       string
	Path     KeyPath
	Markup   bool
	Resolved bool
	Content  string
	Err      error
}

// Report summarizes one binding pass.
type Report struct {
	WidgetID string
	Results  []Result
}

// Resolved returns the number of targets that received a document value.
func (r Report) Resolved() int {
	n := 0
	for _, res := range r.Results {
		if res.Resolved {
			n++
		}
	}
	return n
}

// Unresolved returns the number of targets that received the placeholder.
func (r Report) Unresolved() int {
	return len(r.Results) - r.Resolved()
}

// Binder writes document values into targets.
type Binder struct {
	sanitizer Sanitizer
	logger    *slog.Logger
}

// Option configures a Binder.
type Option func(*Binder)

// WithSanitizer filters markup assigned to "wg-html" targets.
func WithSanitizer(s Sanitizer) Option {
	return func(b *Binder) { b.sanitizer = s }
}

// WithLogger sets the logger used for per-target failures.
func WithLogger(l *slog.Logger) Option {
	return func(b *Binder) { b.logger = l }
}

// NewBinder creates a Binder.
func NewBinder(opts ...Option) *Binder {
	b := &Binder{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Apply resolves every target against doc and mutates its element.
// Targets are processed in order; a failing markup assignment falls back to
// text for that element only.
func (b *Binder) Apply(widgetID string, doc Value, targets []Target) Report {
	report := Report{WidgetID: widgetID, Results: make([]Result, 0, len(targets))}

	for _, t := range targets {
		res := Result{ID: t.ID, Path: t.Path, Markup: t.Markup}

		v, ok := doc.Lookup(t.Path)
		if !ok || !v.IsScalar() {
			res.Content = Placeholder
			t.Element.SetText(Placeholder)
			report.Results = append(report.Results, res)
			continue
		}

		res.Resolved = true
		res.Content = v.Text()
		if t.Markup {
			markup := res.Content
			if b.sanitizer != nil {
				markup = b.sanitizer.Sanitize(markup)
			}
			if err := t.Element.SetHTML(markup); err != nil {
				b.logger.Warn("markup rejected, falling back to text",
					"widget_id", widgetID,
					"element_id", t.ID,
					"error", err,
					"category", "binder")
				res.Err = err
				t.Element.SetText(res.Content)
			}
		} else {
			t.Element.SetText(res.Content)
		}
		report.Results = append(report.Results, res)
	}

	return report
}

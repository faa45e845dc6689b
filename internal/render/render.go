// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render builds dashboard HTML from embedded templates: the layout
// page, the per-widget skeletons and the markup fragments widgets return.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/kken7231/screensaver/internal/i18n"
	"github.com/kken7231/screensaver/internal/layout"
)

var templatePatterns = []string{"*.html", "widgets/*.html", "partials/*.html"}

// Renderer executes the dashboard templates.
type Renderer struct {
	fsys   fs.FS
	isDev  bool
	logger *slog.Logger

	mu   sync.RWMutex
	tmpl *template.Template
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	// IsDev re-parses templates on every call.
	IsDev  bool
	Logger *slog.Logger
}

// New creates a Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	r := &Renderer{
		fsys:   cfg.TemplatesFS,
		isDev:  cfg.IsDev,
		logger: cfg.Logger,
	}

	tmpl, err := r.parse()
	if err != nil {
		return nil, err
	}
	r.tmpl = tmpl
	return r, nil
}

func (r *Renderer) parse() (*template.Template, error) {
	tmpl := template.New("").Funcs(templateFuncs())
	for _, pattern := range templatePatterns {
		matches, err := fs.Glob(r.fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("globbing %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			continue
		}
		if tmpl, err = tmpl.ParseFS(r.fsys, matches...); err != nil {
			return nil, fmt.Errorf("parsing templates: %w", err)
		}
	}
	return tmpl, nil
}

func (r *Renderer) templates() (*template.Template, error) {
	if r.isDev {
		tmpl, err := r.parse()
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.tmpl = tmpl
		r.mu.Unlock()
		return tmpl, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tmpl, nil
}

// templateFuncs returns custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"indexRange": IndexRange,
		"t":          i18n.T,
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// IndexRange returns 0..n-1.
func IndexRange(n int) []int {
	out := make([]int, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, i)
	}
	return out
}

// execute renders name into a buffer first so a failing template writes
// nothing.
func (r *Renderer) execute(name string, data any) (string, error) {
	tmpl, err := r.templates()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Has reports whether a template named name is defined.
func (r *Renderer) Has(name string) bool {
	tmpl, err := r.templates()
	if err != nil {
		return false
	}
	return tmpl.Lookup(name) != nil
}

// Page writes the full dashboard page.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	out, err := r.execute("index", data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// widgetData is passed to widget skeleton templates.
type widgetData struct {
	WidgetID string
	Type     layout.WidgetType
	Size     layout.WidgetSize
	Lang     string
}

// WidgetContent renders the skeleton for one widget: the elements whose ids
// the binder later fills.
func (r *Renderer) WidgetContent(w layout.Widget, lang string) (template.HTML, error) {
	out, err := r.execute(string(w.Type)+"/"+string(w.Size), widgetData{
		WidgetID: w.ID(),
		Type:     w.Type,
		Size:     w.Size,
		Lang:     lang,
	})
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil //nolint:gosec // output of html/template
}

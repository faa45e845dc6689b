// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"

	"github.com/kken7231/screensaver/internal/i18n"
	"github.com/kken7231/screensaver/internal/layout"
)

// Page defaults.
const (
	DefaultGap     = template.CSS("16px")
	DefaultMargin  = template.CSS("16px")
	DefaultPadding = template.CSS("calc(var(--cell-size) * 0.1)")
)

// UpdateButtons reports which widget types get a refresh button.
type UpdateButtons interface {
	ShowUpdateButton(t layout.WidgetType) bool
}

// PageData is the data for the index template.
type PageData struct {
	Title    string
	Lang     string
	Layout   string
	Layouts  []string
	Rows     int
	Cols     int
	Gap      template.CSS
	Margin   template.CSS
	Widgets  []WidgetView
	Live     bool
	Snapshot bool
}

// WidgetView places one widget on the grid.
type WidgetView struct {
	ID            string
	Type          layout.WidgetType
	Query         string
	IRow          int
	LRow          int
	ICol          int
	LCol          int
	Padding       template.CSS
	ShowUpdateBtn bool
	Content       template.HTML
}

// BuildPage renders the skeleton of every widget in l. A widget without a
// template renders a localized "not implemented" notice.
func (r *Renderer) BuildPage(l *layout.Layout, buttons UpdateButtons, lang string) PageData {
	data := PageData{
		Title:  i18n.T(lang, "page.title"),
		Lang:   lang,
		Layout: l.Name,
		Rows:   l.Rows,
		Cols:   l.Cols,
		Gap:    DefaultGap,
		Margin: DefaultMargin,
	}

	for _, w := range l.Widgets {
		content, err := r.WidgetContent(w, lang)
		if err != nil {
			r.logger.Warn("widget has no template",
				"widget_id", w.ID(), "size", w.Size, "error", err, "category", "widget")
			content = template.HTML(template.HTMLEscapeString(i18n.T(lang, "widget.not_implemented"))) //nolint:gosec // escaped above
		}
		rows, cols := w.Span()
		view := WidgetView{
			ID:      w.ID(),
			Type:    w.Type,
			Query:   w.Query(),
			IRow:    w.Row,
			LRow:    rows,
			ICol:    w.Col,
			LCol:    cols,
			Padding: DefaultPadding,
			Content: content,
		}
		if buttons != nil {
			view.ShowUpdateBtn = buttons.ShowUpdateButton(w.Type)
		}
		data.Widgets = append(data.Widgets, view)
	}
	return data
}

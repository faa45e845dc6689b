// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package layout

import (
	"fmt"
	"net/url"
	"strconv"
)

// WidgetSize represents the grid footprint of a widget.
type WidgetSize string

// Widget sizes.
const (
	Small   WidgetSize = "small"
	MiddleH WidgetSize = "middleh"
	MiddleV WidgetSize = "middlev"
	Large   WidgetSize = "large"
	LongH   WidgetSize = "longh"
	LongV   WidgetSize = "longv"
)

// Sizes lists every known widget size.
var Sizes = []WidgetSize{Small, MiddleH, MiddleV, Large, LongH, LongV}

// Valid reports whether s is a known size.
func (s WidgetSize) Valid() bool {
	for _, known := range Sizes {
		if s == known {
			return true
		}
	}
	return false
}

// Span returns the number of grid rows and columns covered by s.
func (s WidgetSize) Span() (rows, cols int) {
	switch s {
	case MiddleV:
		return 2, 1
	case MiddleH:
		return 1, 2
	case Large:
		return 2, 2
	case LongH:
		return 1, 4
	case LongV:
		return 4, 1
	default:
		return 1, 1
	}
}

// WidgetType names a data source.
type WidgetType string

// Widget types served by this dashboard.
const (
	WeatherForecastWidget WidgetType = "weatherforecast"
	NotionCalendarWidget  WidgetType = "notioncalendar"
	ClockWidget           WidgetType = "clock"
)

// Widget is one cell of a layout.
type Widget struct {
	Type WidgetType     `json:"type" yaml:"type"`
	Size WidgetSize     `json:"size" yaml:"size"`
	Row  int            `json:"row" yaml:"row"`
	Col  int            `json:"col" yaml:"col"`
	Data map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// ID returns the widget identifier used in element ids, e.g. "wg-clock-r1-c3".
func (w Widget) ID() string {
	return fmt.Sprintf("wg-%s-r%d-c%d", w.Type, w.Row, w.Col)
}

// Span returns the grid rows and columns the widget covers.
func (w Widget) Span() (rows, cols int) {
	return w.Size.Span()
}

// Query returns the API query for the widget: the size followed by every
// data entry, keys sorted and values URL-encoded.
func (w Widget) Query() string {
	q := "size=" + url.QueryEscape(string(w.Size))
	if extra := encodeData(w.Data); extra != "" {
		q += "&" + extra
	}
	return q
}

func encodeData(data map[string]any) string {
	vals := url.Values{}
	for k, v := range data {
		if k == "size" {
			continue
		}
		vals.Set(k, formatValue(v))
	}
	// Encode sorts by key.
	return vals.Encode()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

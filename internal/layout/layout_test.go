// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package layout

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestWidgetID(t *testing.T) {
	w := Widget{Type: ClockWidget, Size: MiddleH, Row: 1, Col: 3}
	assert.Equal(t, "wg-clock-r1-c3", w.ID())
}

func TestWidgetSpan(t *testing.T) {
	tests := []struct {
		size       WidgetSize
		rows, cols int
	}{
		{Small, 1, 1},
		{MiddleV, 2, 1},
		{MiddleH, 1, 2},
		{Large, 2, 2},
		{LongH, 1, 4},
		{LongV, 4, 1},
	}
	for _, tt := range tests {
		rows, cols := Widget{Size: tt.size}.Span()
		assert.Equal(t, tt.rows, rows, "rows for %s", tt.size)
		assert.Equal(t, tt.cols, cols, "cols for %s", tt.size)
	}
}

func TestWidgetQuery(t *testing.T) {
	w := Widget{
		Type: WeatherForecastWidget,
		Size: MiddleV,
		Data: map[string]any{
			"location_name":      "Tokyo Station",
			"location_latitude":  35.6812,
			"location_longitude": 139.7671,
			"location_histdata":  "44132",
		},
	}

	want := "size=middlev&location_histdata=44132&location_latitude=35.6812&location_longitude=139.7671&location_name=Tokyo+Station"
	assert.Equal(t, want, w.Query())

	// Stable across calls despite map iteration order.
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, w.Query())
	}
}

func TestWidgetQuery_NoData(t *testing.T) {
	w := Widget{Type: ClockWidget, Size: MiddleH}
	assert.Equal(t, "size=middleh", w.Query())
}

func TestStore_LoadJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "default.json", `{
		"name": "default",
		"rows": 4,
		"cols": 6,
		"widgets": [
			{"type": "clock", "size": "middleh", "row": 1, "col": 1},
			{"type": "weatherforecast", "size": "small", "row": 2, "col": 1,
			 "data": {"location_name": "Tokyo", "location_latitude": 35.68, "location_longitude": 139.76}}
		]
	}`)
	writeFile(t, dir, "kitchen.yaml", `
rows: 4
cols: 4
widgets:
  - type: notioncalendar
    size: longv
    row: 1
    col: 4
`)

	store := NewStore(dir, "default", nil, nil)

	l, err := store.Load("")
	require.NoError(t, err)
	assert.Equal(t, "default", l.Name)
	require.Len(t, l.Widgets, 2)
	assert.Equal(t, "wg-weatherforecast-r2-c1", l.Widgets[1].ID())

	k, err := store.Load("kitchen")
	require.NoError(t, err)
	assert.Equal(t, "kitchen", k.Name, "name defaults to file name")
	require.Len(t, k.Widgets, 1)
	assert.Equal(t, LongV, k.Widgets[0].Size)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "kitchen"}, names)
}

func TestStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{"rows": `)
	store := NewStore(dir, "default", nil, nil)

	_, err := store.Load("missing")
	assert.True(t, errors.Is(err, ErrLayoutNotFound), "got %v", err)

	_, err = store.Load("../etc/passwd")
	assert.True(t, errors.Is(err, ErrInvalidName), "got %v", err)

	_, err = store.Load("broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing layout")
}

type rejectClock struct{}

func (rejectClock) Check(w Widget) error {
	if w.Type == ClockWidget {
		return errors.New("clock not allowed")
	}
	return nil
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		checker Checker
		wantErr string
	}{
		{
			name:   "valid",
			layout: Layout{Rows: 2, Cols: 2, Widgets: []Widget{{Type: ClockWidget, Size: MiddleH, Row: 1, Col: 1}}},
		},
		{
			name:    "empty grid",
			layout:  Layout{Rows: 0, Cols: 2},
			wantErr: "at least 1x1",
		},
		{
			name:    "out of bounds",
			layout:  Layout{Rows: 2, Cols: 2, Widgets: []Widget{{Type: ClockWidget, Size: LongH, Row: 1, Col: 1}}},
			wantErr: "does not fit",
		},
		{
			name:    "zero row",
			layout:  Layout{Rows: 2, Cols: 2, Widgets: []Widget{{Type: ClockWidget, Size: Small, Row: 0, Col: 1}}},
			wantErr: "does not fit",
		},
		{
			name: "overlap",
			layout: Layout{Rows: 2, Cols: 2, Widgets: []Widget{
				{Type: ClockWidget, Size: Large, Row: 1, Col: 1},
				{Type: WeatherForecastWidget, Size: Small, Row: 2, Col: 2},
			}},
			wantErr: "overlaps",
		},
		{
			name:    "unknown size",
			layout:  Layout{Rows: 2, Cols: 2, Widgets: []Widget{{Type: ClockWidget, Size: "huge", Row: 1, Col: 1}}},
			wantErr: "unknown size",
		},
		{
			name:    "checker",
			layout:  Layout{Rows: 2, Cols: 2, Widgets: []Widget{{Type: ClockWidget, Size: Small, Row: 1, Col: 1}}},
			checker: rejectClock{},
			wantErr: "clock not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate(tt.checker)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should contain %q", err, tt.wantErr)
		})
	}
}

func TestStore_LoadAllSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `{"rows":1,"cols":1,"widgets":[]}`)
	writeFile(t, dir, "bad.json", `{"rows":0,"cols":1}`)
	writeFile(t, dir, "notes.txt", `ignored`)

	layouts, err := NewStore(dir, "good", nil, nil).LoadAll()
	require.NoError(t, err)
	require.Len(t, layouts, 1)
	assert.Equal(t, "good", layouts[0].Name)
}

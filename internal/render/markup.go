// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"fmt"
	"html/template"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Timeline renders the hour grid of a day view from minHours to maxHours:
// a line every three hours and at maxHours, plus the current-time marker.
// The marker is hidden when now falls outside the window.
func (r *Renderer) Timeline(minHours, maxHours int, now time.Time) (string, error) {
	if maxHours < minHours {
		return "", fmt.Errorf("timeline: max hour %d before min hour %d", maxHours, minHours)
	}
	nRow := maxHours - minHours + 1

	minNow := (now.Hour()-minHours)*60 + now.Minute()
	visibility := "visible"
	if minNow < 0 || minNow > (maxHours-minHours)*60 {
		visibility = "hidden"
		minNow = 0
	}

	var sb strings.Builder
	out, err := r.execute("nowline", map[string]any{
		"NRow":       nRow,
		"MinNow":     minNow,
		"MinHours":   minHours,
		"Visibility": visibility,
	})
	if err != nil {
		return "", err
	}
	sb.WriteString(out)

	for h := minHours; h <= maxHours; h++ {
		if h%3 != 0 && h != maxHours {
			continue
		}
		out, err := r.execute("horline", map[string]any{
			"NRow":  nRow,
			"Index": h - minHours,
			"Text":  h,
		})
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}

// EventView is a calendar event ready for display.
type EventView struct {
	Name      string
	TimeDesc  string
	StartMins int
	EndMins   int
	Level     int
	Color     template.CSS
	AllDay    bool
}

// Window is the visible hour range of a day view.
type Window struct {
	NSlot    int
	MinHours int
	MaxHours int
}

// Events renders the timed events of a day view inside the window container.
// All-day events are skipped.
func (r *Renderer) Events(w Window, events []EventView) (string, error) {
	return r.execute("events", map[string]any{
		"NSlot":    w.NSlot,
		"MinHours": w.MinHours,
		"MaxHours": w.MaxHours,
		"Events":   events,
	})
}

// Agenda renders a compact event list: all-day events first, then timed
// events, or a "no events" notice.
func (r *Renderer) Agenda(events []EventView, lang string) (string, error) {
	return r.execute("agenda", map[string]any{
		"Events": events,
		"Lang":   lang,
	})
}

// GraphPoint is one observation of a temperature graph.
type GraphPoint struct {
	Minute int // minutes since midnight
	Temp   float64
}

// TempGraph renders observations as positioned bars scaled between the
// lowest and highest temperature.
func (r *Renderer) TempGraph(points []GraphPoint) (string, error) {
	if len(points) == 0 {
		return "", nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Temp)
		hi = math.Max(hi, p.Temp)
	}

	type bar struct {
		Minute int
		Temp   float64
		Level  string
		Label  string
	}
	bars := make([]bar, 0, len(points))
	for _, p := range points {
		level := 1.0
		if hi > lo {
			level = (p.Temp - lo) / (hi - lo)
		}
		bars = append(bars, bar{
			Minute: p.Minute,
			Temp:   p.Temp,
			Level:  fmt.Sprintf("%.3f", level),
			Label:  fmt.Sprintf("%d:%02d %.1f°", p.Minute/60, p.Minute%60, p.Temp),
		})
	}
	return r.execute("tempgraph", map[string]any{
		"Min":  fmt.Sprintf("%.1f", lo),
		"Max":  fmt.Sprintf("%.1f", hi),
		"Bars": bars,
	})
}

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// MarkupPolicy returns the sanitizer for widget markup fragments. It keeps
// the layout elements and class/style attributes the fragments use.
func MarkupPolicy() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("div", "span", "p", "b", "strong", "i", "em", "br", "small")
		policy.AllowAttrs("class", "style", "title").Globally()
		policy.AllowNoAttrs().OnElements("span")
		markupPolicy = policy
	})
	return markupPolicy
}

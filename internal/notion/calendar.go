// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notion

import (
	"cmp"
	"fmt"
	"html/template"
	"slices"
	"strings"
	"time"

	"github.com/kken7231/screensaver/internal/render"
)

// EventColor is the background of timed events in the day view.
const EventColor = "red"

// QueryResponse is the database query response. Only the fields the
// calendar reads are decoded.
type QueryResponse struct {
	Object  string   `json:"object"`
	Results []Result `json:"results"`
	Code    string   `json:"code,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Result is one database entry.
type Result struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// Property is a database property value.
type Property struct {
	ID     string     `json:"id"`
	Type   string     `json:"type"`
	Title  []RichText `json:"title,omitempty"`
	Date   *Date      `json:"date,omitempty"`
	Select *Select    `json:"select,omitempty"`
}

// RichText is one rich text run.
type RichText struct {
	Type      string `json:"type"`
	PlainText string `json:"plain_text"`
	Text      *struct {
		Content string `json:"content"`
	} `json:"text,omitempty"`
}

// Date is a date property. Start and End are ISO 8601 dates, with a time
// part for timed entries.
type Date struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Select is a select property.
type Select struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Event is a calendar entry. All-day events end one nanosecond before the
// day after their last date.
type Event struct {
	Name   string
	Start  time.Time
	End    time.Time
	AllDay bool
	Level  int
}

// Parse extracts events from resp using the given title and date property
// names. Dates without an offset are read in loc.
func Parse(resp QueryResponse, nameProp, dateProp string, loc *time.Location) ([]Event, error) {
	if resp.Object == "error" {
		return nil, fmt.Errorf("error found in the calendar json data: %s", resp.Message)
	}
	events := make([]Event, 0, len(resp.Results))
	for _, res := range resp.Results {
		ev, err := parseResult(res, nameProp, dateProp, loc)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseResult(res Result, nameProp, dateProp string, loc *time.Location) (Event, error) {
	name, ok := res.Properties[nameProp]
	if !ok {
		return Event{}, fmt.Errorf("entry %s has no property %q", res.ID, nameProp)
	}
	if len(name.Title) == 0 || name.Title[0].Text == nil {
		return Event{}, fmt.Errorf("entry %s: property %q has no text title", res.ID, nameProp)
	}

	dp, ok := res.Properties[dateProp]
	if !ok {
		return Event{}, fmt.Errorf("entry %s has no property %q", res.ID, dateProp)
	}
	if dp.Date == nil {
		return Event{}, fmt.Errorf("entry %s: property %q has no date", res.ID, dateProp)
	}

	allDay := !strings.Contains(dp.Date.Start, ":")
	layout := "2006-01-02"
	if !allDay {
		layout += "T15:04:05Z07:00"
	}
	start, err := time.ParseInLocation(layout, dp.Date.Start, loc)
	if err != nil {
		return Event{}, fmt.Errorf("entry %s: invalid start %q: %w", res.ID, dp.Date.Start, err)
	}
	end := start
	if dp.Date.End != "" {
		if end, err = time.ParseInLocation(layout, dp.Date.End, loc); err != nil {
			return Event{}, fmt.Errorf("entry %s: invalid end %q: %w", res.ID, dp.Date.End, err)
		}
	}
	if allDay {
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return Event{
		Name:   name.Title[0].Text.Content,
		Start:  start.In(loc),
		End:    end.In(loc),
		AllDay: allDay,
	}, nil
}

// Hierarchize orders events by start (longer first on ties) and assigns
// levels so that events on one level never overlap. Each level is filled
// greedily before the next is opened. All-day events stay on level 0 and
// are listed first.
func Hierarchize(events []Event) []Event {
	var allDay, pending []Event
	for _, e := range events {
		if e.AllDay {
			e.Level = 0
			allDay = append(allDay, e)
		} else {
			pending = append(pending, e)
		}
	}
	byStart := func(a, b Event) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return b.End.Compare(a.End)
	}
	slices.SortStableFunc(allDay, byStart)
	slices.SortStableFunc(pending, byStart)

	out := append(make([]Event, 0, len(events)), allDay...)
	for level := 0; len(pending) > 0; level++ {
		var rest []Event
		var last time.Time
		for i, e := range pending {
			if i == 0 || !e.Start.Before(last) {
				e.Level = level
				out = append(out, e)
				last = e.End
				continue
			}
			rest = append(rest, e)
		}
		pending = rest
	}
	return out
}

// dayStart returns midnight of t in t's location.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// clampMinutes returns the minutes of t since day's midnight, limited to
// the day.
func clampMinutes(t, day time.Time) int {
	m := int(t.Sub(dayStart(day)) / time.Minute)
	return max(0, min(m, 24*60))
}

// WindowOf returns the hour range covering the timed events of day: from
// the earliest start hour to one hour past the latest end. forceAllDay
// always yields 0 to 24. ok is false when no timed event gives a window.
func WindowOf(events []Event, day time.Time, forceAllDay bool) (w render.Window, ok bool) {
	minHours, maxHours := 24, 0
	if forceAllDay {
		minHours, maxHours = 0, 24
	} else {
		for _, e := range events {
			if e.AllDay {
				continue
			}
			minHours = min(minHours, clampMinutes(e.Start, day)/60)
			maxHours = max(maxHours, min(24, clampMinutes(e.End, day)/60+1))
		}
	}
	if maxHours <= minHours {
		return render.Window{}, false
	}
	return render.Window{
		NSlot:    maxHours - minHours + 1,
		MinHours: minHours,
		MaxHours: maxHours,
	}, true
}

// Views converts events to their display form relative to day.
func Views(events []Event, day time.Time) []render.EventView {
	views := make([]render.EventView, len(events))
	for i, e := range events {
		views[i] = render.EventView{
			Name:      e.Name,
			TimeDesc:  fmt.Sprintf("%d:%02d-%d:%02d", e.Start.Hour(), e.Start.Minute(), e.End.Hour(), e.End.Minute()),
			StartMins: clampMinutes(e.Start, day),
			EndMins:   clampMinutes(e.End, day),
			Level:     e.Level,
			Color:     template.CSS(EventColor),
			AllDay:    e.AllDay,
		}
	}
	return views
}

// sortByStart is used for agenda lists, which have no levels.
func sortByStart(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return cmp.Compare(a.Start.UnixNano(), b.Start.UnixNano())
	})
}

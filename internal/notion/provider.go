// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kken7231/screensaver/internal/datefmt"
	"github.com/kken7231/screensaver/internal/layout"
	"github.com/kken7231/screensaver/internal/render"
	"github.com/kken7231/screensaver/internal/widget"
)

// Markup renders the calendar fragments.
type Markup interface {
	Timeline(minHours, maxHours int, now time.Time) (string, error)
	Events(w render.Window, events []render.EventView) (string, error)
	Agenda(events []render.EventView, lang string) (string, error)
}

// Provider serves the notioncalendar widget.
type Provider struct {
	client *Client
	markup Markup
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// NewProvider creates the notioncalendar provider. Days are computed in loc.
func NewProvider(client *Client, markup Markup, loc *time.Location, logger *slog.Logger) *Provider {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		client: client,
		markup: markup,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

// Type implements widget.Provider.
func (p *Provider) Type() layout.WidgetType { return layout.NotionCalendarWidget }

// Sizes implements widget.Provider.
func (p *Provider) Sizes() []layout.WidgetSize {
	return []layout.WidgetSize{layout.MiddleV, layout.LongV, layout.MiddleH}
}

// ShowUpdateButton implements widget.Provider.
func (p *Provider) ShowUpdateButton() bool { return true }

// CheckData implements widget.Provider. The calendar takes no parameters.
func (p *Provider) CheckData(data map[string]any) error {
	for k := range data {
		return fmt.Errorf("unexpected data key %q", k)
	}
	return nil
}

// Fetch implements widget.Provider.
func (p *Provider) Fetch(ctx context.Context, q widget.Query) (widget.Document, error) {
	now := p.now().In(p.loc)
	if q.Size == layout.MiddleH {
		return p.agenda(ctx, now, q.Lang)
	}
	return p.day(ctx, now, q.Lang, q.Size == layout.LongV)
}

// day renders today's timeline. Without timed events lines and events
// are empty.
func (p *Provider) day(ctx context.Context, now time.Time, lang string, forceAllDay bool) (widget.Document, error) {
	doc := widget.Document{
		"today":  datefmt.MonthDay(now, lang),
		"lines":  "",
		"events": "",
	}

	events, err := p.client.Events(ctx, now)
	if err != nil {
		return nil, err
	}
	events = Hierarchize(events)

	w, ok := WindowOf(events, now, forceAllDay)
	if !ok {
		p.logger.Debug("no timed events today", "events", len(events))
		return doc, nil
	}
	if doc["lines"], err = p.markup.Timeline(w.MinHours, w.MaxHours, now); err != nil {
		return nil, err
	}
	if doc["events"], err = p.markup.Events(w, Views(events, now)); err != nil {
		return nil, err
	}
	return doc, nil
}

// agenda lists the events of tomorrow and the day after.
func (p *Provider) agenda(ctx context.Context, now time.Time, lang string) (widget.Document, error) {
	days := [2]time.Time{now.AddDate(0, 0, 1), now.AddDate(0, 0, 2)}
	var lists [2][]Event

	g, ctx := errgroup.WithContext(ctx)
	for i, day := range days {
		g.Go(func() error {
			events, err := p.client.Events(ctx, day)
			if err != nil {
				return err
			}
			sortByStart(events)
			lists[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc := widget.Document{
		"tomorrow": datefmt.MonthDay(days[0], lang),
		"dat":      datefmt.MonthDay(days[1], lang),
	}
	for i, key := range []string{"tomorrow_events", "dat_events"} {
		out, err := p.markup.Agenda(Views(lists[i], days[i]), lang)
		if err != nil {
			return nil, err
		}
		doc[key] = out
	}
	return doc, nil
}

var (
	_ widget.Provider = (*Provider)(nil)
	_ Markup          = (*render.Renderer)(nil)
)

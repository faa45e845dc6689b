// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package weather

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kken7231/screensaver/internal/datefmt"
	"github.com/kken7231/screensaver/internal/layout"
	"github.com/kken7231/screensaver/internal/render"
	"github.com/kken7231/screensaver/internal/widget"
)

// Forecast span served to widgets.
const (
	ForecastHours = 5
	ForecastDays  = 5
)

// Query parameters.
const (
	ParamName      = "location_name"
	ParamLatitude  = "location_latitude"
	ParamLongitude = "location_longitude"
	ParamStation   = "location_histdata"
)

// Markup renders the middlev fragments.
type Markup interface {
	Timeline(minHours, maxHours int, now time.Time) (string, error)
	TempGraph(points []render.GraphPoint) (string, error)
}

// Provider serves the weatherforecast widget.
type Provider struct {
	client *Client
	markup Markup
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// NewProvider creates the weatherforecast provider. Times are shown in the
// client's timezone.
func NewProvider(client *Client, markup Markup, logger *slog.Logger) (*Provider, error) {
	loc, err := time.LoadLocation(client.timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", client.timezone, err)
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
	}, nil
}

// Type implements widget.Provider.
func (p *Provider) Type() layout.WidgetType { return layout.WeatherForecastWidget }

// Sizes implements widget.Provider.
func (p *Provider) Sizes() []layout.WidgetSize {
	return []layout.WidgetSize{layout.Small, layout.MiddleV}
}

// ShowUpdateButton implements widget.Provider.
func (p *Provider) ShowUpdateButton() bool { return true }

// CheckData requires a location name and numeric coordinates.
func (p *Provider) CheckData(data map[string]any) error {
	if _, ok := data[ParamName].(string); !ok {
		return fmt.Errorf("%s must be a string", ParamName)
	}
	for _, key := range []string{ParamLatitude, ParamLongitude} {
		switch data[key].(type) {
		case float64, int, int64:
		default:
			return fmt.Errorf("%s must be a number", key)
		}
	}
	if v, ok := data[ParamStation]; ok {
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s must be a string", ParamStation)
		}
	}
	return nil
}

type location struct {
	name     string
	lat, lon float64
	station  string
}

func parseLocation(q widget.Query) (location, error) {
	loc := location{
		name:    q.Get(ParamName),
		station: q.Get(ParamStation),
	}
	if loc.name == "" || q.Get(ParamLatitude) == "" || q.Get(ParamLongitude) == "" {
		return location{}, fmt.Errorf("%w: please provide location information", widget.ErrInvalidQuery)
	}
	if q.Size == layout.MiddleV && loc.station == "" {
		return location{}, fmt.Errorf("%w: please provide the amedas location code for historical data", widget.ErrInvalidQuery)
	}
	var err error
	if loc.lat, err = q.Float(ParamLatitude); err != nil {
		return location{}, fmt.Errorf("%w: please provide valid latitude information", widget.ErrInvalidQuery)
	}
	if loc.lon, err = q.Float(ParamLongitude); err != nil {
		return location{}, fmt.Errorf("%w: please provide valid longitude information", widget.ErrInvalidQuery)
	}
	return loc, nil
}

// Fetch implements widget.Provider.
func (p *Provider) Fetch(ctx context.Context, q widget.Query) (widget.Document, error) {
	loc, err := parseLocation(q)
	if err != nil {
		return nil, err
	}

	now := p.now().In(p.loc)
	raw, err := p.client.Forecast(ctx, loc.lat, loc.lon, ForecastDays)
	if err != nil {
		return nil, err
	}
	fc, err := Parse(raw, now, p.loc, q.Lang, ForecastHours, ForecastDays)
	if err != nil {
		return nil, err
	}

	doc := widget.Document{
		"location_name": loc.name,
		"current":       fc.Current,
		"hourly":        fc.Hourly,
		"daily":         fc.Daily,
	}
	if q.Size != layout.MiddleV {
		return doc, nil
	}

	doc["today"] = datefmt.MonthDay(now, q.Lang)
	if doc["lines"], err = p.markup.Timeline(0, 24, now); err != nil {
		return nil, err
	}

	obs, err := p.todayObservations(ctx, loc.station, now)
	if err != nil {
		return nil, err
	}
	points := make([]render.GraphPoint, len(obs))
	for i, o := range obs {
		points[i] = render.GraphPoint{Minute: o.Minute(), Temp: o.Temp}
	}
	if doc["temp_graph"], err = p.markup.TempGraph(points); err != nil {
		return nil, err
	}
	return doc, nil
}

// todayObservations fetches every three-hour block up to now concurrently.
// The latest block may not be published yet and is skipped on error.
func (p *Provider) todayObservations(ctx context.Context, station string, now time.Time) ([]Observation, error) {
	var (
		mu  sync.Mutex
		all []Observation
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	last := now.Hour() / 3
	for block := 0; block <= last; block++ {
		g.Go(func() error {
			raw, err := p.client.Observations(ctx, station, now, block)
			if err != nil {
				if block == last {
					p.logger.Warn("latest observation block unavailable",
						"station", station, "block", block, "error", err, "category", "upstream")
					return nil
				}
				return err
			}
			obs, err := ParseObservations(raw)
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, obs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortStableFunc(all, func(a, b Observation) int { return a.Time - b.Time })
	return all, nil
}

var (
	_ widget.Provider = (*Provider)(nil)
	_ Markup          = (*render.Renderer)(nil)
)

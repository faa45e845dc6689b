// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package weather serves the weatherforecast widget from the open-meteo JMA
// forecast and the JMA AMeDAS observation feed.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Defaults for the upstream services.
const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/jma"
	DefaultAmedasURL   = "https://www.jma.go.jp/bosai/amedas/data/point"
	DefaultTimezone    = "Asia/Tokyo"

	maxBodySize = 4 << 20
)

// Client talks to the forecast and observation APIs.
type Client struct {
	forecastURL string
	amedasURL   string
	timezone    string
	http        *http.Client
}

// NewClient creates a Client. Empty URLs and timezone use the defaults; a
// nil httpClient gets a 10 second timeout.
func NewClient(forecastURL, amedasURL, timezone string, httpClient *http.Client) *Client {
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	if amedasURL == "" {
		amedasURL = DefaultAmedasURL
	}
	if timezone == "" {
		timezone = DefaultTimezone
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		forecastURL: forecastURL,
		amedasURL:   amedasURL,
		timezone:    timezone,
		http:        httpClient,
	}
}

// ForecastURL returns the forecast request URL for a location, covering
// today plus days more days.
func (c *Client) ForecastURL(lat, lon float64, days int) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("current", "temperature_2m,weather_code")
	q.Set("hourly", "temperature_2m,weather_code")
	q.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	q.Set("timezone", c.timezone)
	q.Set("forecast_days", strconv.Itoa(days+1))
	return c.forecastURL + "?" + q.Encode()
}

// Forecast fetches the forecast for a location.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) (RawForecast, error) {
	var raw RawForecast
	if err := c.getJSON(ctx, c.ForecastURL(lat, lon, days), &raw); err != nil {
		return RawForecast{}, fmt.Errorf("fetching forecast: %w", err)
	}
	return raw, nil
}

// ObservationURL returns the URL of one three-hour AMeDAS block.
func (c *Client) ObservationURL(station string, day time.Time, block int) string {
	return fmt.Sprintf("%s/%s/%d%02d%02d_%02d.json",
		c.amedasURL, url.PathEscape(station), day.Year(), int(day.Month()), day.Day(), block*3)
}

// Observations fetches one three-hour block of station observations.
func (c *Client) Observations(ctx context.Context, station string, day time.Time, block int) (RawObservations, error) {
	var raw RawObservations
	if err := c.getJSON(ctx, c.ObservationURL(station, day, block), &raw); err != nil {
		return nil, fmt.Errorf("fetching observations: %w", err)
	}
	return raw, nil
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, u)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", u, err)
	}
	return nil
}

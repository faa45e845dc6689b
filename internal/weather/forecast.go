// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package weather

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // embedded zoneinfo
)

// Display formats for temperatures.
const (
	currentTempFormat = "%.1f°"
	hourlyTempFormat  = "%.1f°"
	dailyTempFormat   = "%.0f°"
)

// Errors returned when the forecast does not cover the coming hours or days.
var (
	ErrNoUpcomingHour = errors.New("no forthcoming hour in forecast")
	ErrNoUpcomingDay  = errors.New("no forthcoming day in forecast")
)

// RawForecast is the open-meteo response.
type RawForecast struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode Code    `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []Code    `json:"weather_code"`
	} `json:"hourly"`
	Daily struct {
		Time           []string  `json:"time"`
		WeatherCode    []Code    `json:"weather_code"`
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Slot points at one entry of a forecast series. Label is the hour of day
// for hourly slots and the day of month for daily slots.
type Slot struct {
	Label int
	Index int
}

// Current is the present conditions.
type Current struct {
	Temp        string `json:"temp"`
	WeatherIcon string `json:"weather_icon"`
	WeatherName string `json:"weather_name"`
}

// Hour is one hourly forecast entry.
type Hour struct {
	Time        string `json:"time"`
	Temp        string `json:"temp"`
	WeatherIcon string `json:"weather_icon"`
	WeatherName string `json:"weather_name"`
}

// Day is one daily forecast entry.
type Day struct {
	Time        string `json:"time"`
	TempMax     string `json:"temp_max"`
	TempMin     string `json:"temp_min"`
	WeatherIcon string `json:"weather_icon"`
	WeatherName string `json:"weather_name"`
}

// Forecast is the display form of a RawForecast.
type Forecast struct {
	Current Current `json:"current"`
	Hourly  []Hour  `json:"hourly"`
	Daily   []Day   `json:"daily"`
}

// NextHours locates the n hourly entries starting at the hour after now.
// Series times use the "2006-01-02T15:00" layout in loc.
func NextHours(times []string, now time.Time, loc *time.Location, n int) ([]Slot, error) {
	next := now.In(loc).Add(time.Hour)
	start := indexOf(times, next.Format("2006-01-02T15:00"))
	if start < 0 || start+n > len(times) {
		return nil, ErrNoUpcomingHour
	}

	slots := make([]Slot, n)
	for i := range slots {
		slots[i] = Slot{Label: next.Add(time.Duration(i) * time.Hour).Hour(), Index: start + i}
	}
	return slots, nil
}

// NextDays locates the n daily entries starting tomorrow.
func NextDays(dates []string, now time.Time, loc *time.Location, n int) ([]Slot, error) {
	tomorrow := now.In(loc).AddDate(0, 0, 1)
	start := indexOf(dates, tomorrow.Format("2006-01-02"))
	if start < 0 || start+n > len(dates) {
		return nil, ErrNoUpcomingDay
	}

	slots := make([]Slot, n)
	for i := range slots {
		slots[i] = Slot{Label: tomorrow.AddDate(0, 0, i).Day(), Index: start + i}
	}
	return slots, nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// Parse converts raw into display form with nHours hourly and nDays daily
// entries. The response timezone wins over fallback when it resolves.
func Parse(raw RawForecast, now time.Time, fallback *time.Location, lang string, nHours, nDays int) (Forecast, error) {
	if nHours < 1 || nDays < 1 {
		return Forecast{}, fmt.Errorf("invalid forecast span: %d hours, %d days", nHours, nDays)
	}
	loc := fallback
	if raw.Timezone != "" {
		l, err := time.LoadLocation(raw.Timezone)
		if err != nil {
			return Forecast{}, fmt.Errorf("invalid time zone %q", raw.Timezone)
		}
		loc = l
	}

	out := Forecast{
		Current: Current{
			Temp:        fmt.Sprintf(currentTempFormat, raw.Current.Temperature),
			WeatherIcon: raw.Current.WeatherCode.Icon(),
			WeatherName: raw.Current.WeatherCode.Description(lang),
		},
	}

	hours, err := NextHours(raw.Hourly.Time, now, loc, nHours)
	if err != nil {
		return Forecast{}, fmt.Errorf("finding the next %d hours: %w", nHours, err)
	}
	if last := hours[len(hours)-1].Index; last >= len(raw.Hourly.Temperature) || last >= len(raw.Hourly.WeatherCode) {
		return Forecast{}, fmt.Errorf("hourly series shorter than time axis: %w", ErrNoUpcomingHour)
	}
	out.Hourly = make([]Hour, len(hours))
	for i, s := range hours {
		code := raw.Hourly.WeatherCode[s.Index]
		out.Hourly[i] = Hour{
			Time:        fmt.Sprintf("%d", s.Label),
			Temp:        fmt.Sprintf(hourlyTempFormat, raw.Hourly.Temperature[s.Index]),
			WeatherIcon: code.Icon(),
			WeatherName: code.Description(lang),
		}
	}

	days, err := NextDays(raw.Daily.Time, now, loc, nDays)
	if err != nil {
		return Forecast{}, fmt.Errorf("finding the next %d days: %w", nDays, err)
	}
	last := days[len(days)-1].Index
	if last >= len(raw.Daily.TemperatureMax) || last >= len(raw.Daily.TemperatureMin) || last >= len(raw.Daily.WeatherCode) {
		return Forecast{}, fmt.Errorf("daily series shorter than time axis: %w", ErrNoUpcomingDay)
	}
	out.Daily = make([]Day, len(days))
	for i, s := range days {
		code := raw.Daily.WeatherCode[s.Index]
		out.Daily[i] = Day{
			Time:        fmt.Sprintf("%d", s.Label),
			TempMax:     fmt.Sprintf(dailyTempFormat, raw.Daily.TemperatureMax[s.Index]),
			TempMin:     fmt.Sprintf(dailyTempFormat, raw.Daily.TemperatureMin[s.Index]),
			WeatherIcon: code.Icon(),
			WeatherName: code.Description(lang),
		}
	}
	return out, nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package datefmt formats dates for the dashboard, including the Japanese
// imperial era calendar.
package datefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/kken7231/screensaver/internal/i18n"
)

// Era is a Japanese imperial era. The era year is the Gregorian year minus
// Offset.
type Era struct {
	Key       string
	StartYear int
	Offset    int
}

// Eras is ordered newest first. Matching is by Gregorian year only, so the
// first days of an era are attributed to it from January 1.
var Eras = []Era{
	{Key: "reiwa", StartYear: 2019, Offset: 2018},
	{Key: "heisei", StartYear: 1989, Offset: 1988},
	{Key: "showa", StartYear: 1926, Offset: 1925},
	{Key: "taisho", StartYear: 1912, Offset: 1911},
	{Key: "meiji", StartYear: 1868, Offset: 1867},
}

// EraOf returns the era containing year.
func EraOf(year int) (Era, bool) {
	for _, e := range Eras {
		if year >= e.StartYear {
			return e, true
		}
	}
	return Era{}, false
}

// Locale maps a widget language to a catalog language. Only English tags
// select English; everything else uses Japanese names.
func Locale(lang string) string {
	l := strings.ToLower(lang)
	if l == "en" || strings.HasPrefix(l, "en-") || strings.HasPrefix(l, "en_") {
		return "en"
	}
	return "ja"
}

// JapaneseDate formats t as "{year}({era} {eraYear})/{month}/{day} {weekday}",
// e.g. "2024(令和 6)/5/1 水曜日". Years before Meiji omit the era part.
func JapaneseDate(t time.Time, lang string) string {
	loc := Locale(lang)
	year := t.Year()
	weekday := i18n.T(loc, fmt.Sprintf("weekday.%d", int(t.Weekday())))

	era, ok := EraOf(year)
	if !ok {
		return fmt.Sprintf("%d/%d/%d %s", year, int(t.Month()), t.Day(), weekday)
	}
	name := i18n.T(loc, "era."+era.Key)
	return fmt.Sprintf("%d(%s %d)/%d/%d %s", year, name, year-era.Offset, int(t.Month()), t.Day(), weekday)
}

// Clock formats t as zero-padded "HH:MM:SS".
func Clock(t time.Time) string {
	return t.Format("15:04:05")
}

// MonthDay formats t as "May 1" in English or "5月1日" in Japanese.
func MonthDay(t time.Time, lang string) string {
	loc := Locale(lang)
	month := i18n.T(loc, fmt.Sprintf("date.month.%d", int(t.Month())))
	return i18n.T(loc, "date.month_day", month, t.Day())
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package weather

import (
	"strconv"

	"github.com/kken7231/screensaver/internal/i18n"
)

// Code is a WMO weather interpretation code as reported by open-meteo.
type Code int

// Weather codes.
const (
	ClearSky     Code = 0
	MainlyClear  Code = 1
	PartlyCloudy Code = 2
	Overcast     Code = 3

	Fog               Code = 45
	DepositingRimeFog Code = 48

	DrizzleLight    Code = 51
	DrizzleModerate Code = 53
	DrizzleDense    Code = 55

	FreezingDrizzleLight Code = 56
	FreezingDrizzleDense Code = 57

	RainSlight   Code = 61
	RainModerate Code = 63
	RainHeavy    Code = 65

	FreezingRainLight Code = 66
	FreezingRainHeavy Code = 67

	SnowFallSlight   Code = 71
	SnowFallModerate Code = 73
	SnowFallHeavy    Code = 75
	SnowGrains       Code = 77

	RainShowersSlight   Code = 80
	RainShowersModerate Code = 81
	RainShowersViolent  Code = 82

	SnowShowersSlight Code = 85
	SnowShowersHeavy  Code = 86

	Thunderstorm               Code = 95
	ThunderstormWithSlightHail Code = 96
	ThunderstormWithHeavyHail  Code = 99
)

// Material Symbols icon names.
var icons = map[Code]string{
	ClearSky:                   "clear_day",
	MainlyClear:                "clear_day",
	PartlyCloudy:               "partly_cloudy_day",
	Overcast:                   "cloud",
	Fog:                        "foggy",
	DepositingRimeFog:          "foggy",
	DrizzleLight:               "mist",
	DrizzleModerate:            "mist",
	DrizzleDense:               "mist",
	FreezingDrizzleLight:       "weather_mix",
	FreezingDrizzleDense:       "weather_mix",
	RainSlight:                 "rainy_light",
	RainModerate:               "rainy_light",
	RainHeavy:                  "rainy_heavy",
	FreezingRainLight:          "rainy_snow",
	FreezingRainHeavy:          "rainy_snow",
	SnowFallSlight:             "weather_snowy",
	SnowFallModerate:           "weather_snowy",
	SnowFallHeavy:              "snowing_heavy",
	SnowGrains:                 "snowing_heavy",
	RainShowersSlight:          "rainy_light",
	RainShowersModerate:        "rainy_light",
	RainShowersViolent:         "rainy_heavy",
	SnowShowersSlight:          "snowing",
	SnowShowersHeavy:           "snowing_heavy",
	Thunderstorm:               "thunderstorm",
	ThunderstormWithSlightHail: "thunderstorm",
	ThunderstormWithHeavyHail:  "thunderstorm",
}

// Icon returns the icon name for c, or "" for unknown codes.
func (c Code) Icon() string {
	return icons[c]
}

// Description returns the localized name of c, or "" for unknown codes.
func (c Code) Description(lang string) string {
	s, _ := i18n.Lookup(lang, "weather.code."+strconv.Itoa(int(c)))
	return s
}

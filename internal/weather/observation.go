// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package weather

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
)

// Reading is an AMeDAS [value, quality flag] pair. Missing values are null.
type Reading [2]*float64

// Value returns the measured value and whether it is present.
func (r Reading) Value() (float64, bool) {
	if r[0] == nil {
		return 0, false
	}
	return *r[0], true
}

// RawObservation is one ten-minute station record.
type RawObservation struct {
	Temp             Reading `json:"temp"`
	Humidity         Reading `json:"humidity"`
	Precipitation10m Reading `json:"precipitation10m"`
	Wind             Reading `json:"wind"`
	NormalPressure   Reading `json:"normalPressure"`
}

// RawObservations maps "yyyymmddHHMMSS" timestamps to records.
type RawObservations map[string]RawObservation

// Observation is a record with a present temperature.
type Observation struct {
	// Time is HHMM, e.g. 1030.
	Time     int     `json:"time"`
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
}

// Minute returns minutes since midnight.
func (o Observation) Minute() int {
	return o.Time/100*60 + o.Time%100
}

// ParseObservations extracts records sorted by time. Records without a
// temperature are skipped.
func ParseObservations(raw RawObservations) ([]Observation, error) {
	out := make([]Observation, 0, len(raw))
	for ts, rec := range raw {
		if len(ts) < 12 {
			return nil, fmt.Errorf("malformed observation timestamp %q", ts)
		}
		hhmm, err := strconv.Atoi(ts[8:12])
		if err != nil {
			return nil, fmt.Errorf("malformed observation timestamp %q: %w", ts, err)
		}
		temp, ok := rec.Temp.Value()
		if !ok {
			continue
		}
		humidity, _ := rec.Humidity.Value()
		out = append(out, Observation{Time: hhmm, Temp: temp, Humidity: humidity})
	}
	slices.SortStableFunc(out, func(a, b Observation) int {
		return cmp.Compare(a.Time, b.Time)
	})
	return out, nil
}

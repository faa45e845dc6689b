// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package theme generates the dashboard colour theme from a seed colour.
package theme

import (
	"fmt"
	"math"
	"regexp"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is a hue and chroma in CIE LCh space (Lab based); tones vary the
// lightness from 0 (black) to 100 (white).
type Palette struct {
	Hue    float64
	Chroma float64
}

// Tone returns the palette colour at tone t. Chroma is reduced until the
// colour fits in sRGB so the requested lightness is kept.
func (p Palette) Tone(t float64) colorful.Color {
	switch {
	case t <= 0:
		return colorful.Color{}
	case t >= 100:
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	l := t / 100
	if c := colorful.Hcl(p.Hue, p.Chroma, l); c.IsValid() {
		return c
	}
	lo, hi := 0.0, p.Chroma
	for range 24 {
		mid := (lo + hi) / 2
		if colorful.Hcl(p.Hue, mid, l).IsValid() {
			lo = mid
		} else {
			hi = mid
		}
	}
	return colorful.Hcl(p.Hue, lo, l).Clamped()
}

// Core holds the key palettes derived from a seed.
type Core struct {
	Primary        Palette
	Secondary      Palette
	Tertiary       Palette
	Neutral        Palette
	NeutralVariant Palette
	Error          Palette
}

// NewCore derives key palettes from seed: the seed hue with strong chroma
// for primary, muted variants for secondary and neutrals, and a hue shifted
// by 60° for tertiary.
func NewCore(seed colorful.Color) Core {
	h, c, _ := seed.Hcl()
	return Core{
		Primary:        Palette{Hue: h, Chroma: math.Max(c, 0.48)},
		Secondary:      Palette{Hue: h, Chroma: 0.16},
		Tertiary:       Palette{Hue: math.Mod(h+60, 360), Chroma: 0.24},
		Neutral:        Palette{Hue: h, Chroma: 0.04},
		NeutralVariant: Palette{Hue: h, Chroma: 0.08},
		Error:          Palette{Hue: 25, Chroma: 0.84},
	}
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ParseHex parses a "#rrggbb" colour.
func ParseHex(s string) (colorful.Color, error) {
	if !hexColor.MatchString(s) {
		return colorful.Color{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// Harmonize rotates c's hue toward seed by half the difference, at most 15°.
func Harmonize(c, seed colorful.Color) colorful.Color {
	h, chroma, l := c.Hcl()
	sh, _, _ := seed.Hcl()
	diff := math.Mod(sh-h+540, 360) - 180
	step := math.Min(math.Abs(diff)*0.5, 15)
	if diff < 0 {
		step = -step
	}
	return Palette{Hue: math.Mod(h+step+360, 360), Chroma: chroma}.Tone(l * 100)
}

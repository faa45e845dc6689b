// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Font stacks used by the dashboard.
const (
	FontSans = `"Roboto", sans-serif`
	FontMono = `"Roboto Mono", monospace`
)

var customName = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Token is one CSS custom property.
type Token struct {
	Name  string
	Value string
}

type role struct {
	name    string
	palette func(Core) Palette
	light   float64
	dark    float64
}

func primary(c Core) Palette        { return c.Primary }
func secondary(c Core) Palette      { return c.Secondary }
func tertiary(c Core) Palette       { return c.Tertiary }
func errorPalette(c Core) Palette   { return c.Error }
func neutral(c Core) Palette        { return c.Neutral }
func neutralVariant(c Core) Palette { return c.NeutralVariant }

var roles = []role{
	{name: "primary", palette: primary, light: 40, dark: 80},
	{name: "on-primary", palette: primary, light: 100, dark: 20},
	{name: "primary-container", palette: primary, light: 90, dark: 30},
	{name: "on-primary-container", palette: primary, light: 10, dark: 90},
	{name: "secondary", palette: secondary, light: 40, dark: 80},
	{name: "on-secondary", palette: secondary, light: 100, dark: 20},
	{name: "secondary-container", palette: secondary, light: 90, dark: 30},
	{name: "on-secondary-container", palette: secondary, light: 10, dark: 90},
	{name: "tertiary", palette: tertiary, light: 40, dark: 80},
	{name: "on-tertiary", palette: tertiary, light: 100, dark: 20},
	{name: "tertiary-container", palette: tertiary, light: 90, dark: 30},
	{name: "on-tertiary-container", palette: tertiary, light: 10, dark: 90},
	{name: "error", palette: errorPalette, light: 40, dark: 80},
	{name: "on-error", palette: errorPalette, light: 100, dark: 20},
	{name: "error-container", palette: errorPalette, light: 90, dark: 30},
	{name: "on-error-container", palette: errorPalette, light: 10, dark: 80},
	{name: "background", palette: neutral, light: 99, dark: 10},
	{name: "on-background", palette: neutral, light: 10, dark: 90},
	{name: "surface", palette: neutral, light: 99, dark: 10},
	{name: "on-surface", palette: neutral, light: 10, dark: 90},
	{name: "surface-variant", palette: neutralVariant, light: 90, dark: 30},
	{name: "on-surface-variant", palette: neutralVariant, light: 30, dark: 80},
	{name: "outline", palette: neutralVariant, light: 50, dark: 60},
	{name: "outline-variant", palette: neutralVariant, light: 80, dark: 30},
	{name: "shadow", palette: neutral, light: 0, dark: 0},
	{name: "scrim", palette: neutral, light: 0, dark: 0},
	{name: "inverse-surface", palette: neutral, light: 20, dark: 90},
	{name: "inverse-on-surface", palette: neutral, light: 95, dark: 20},
	{name: "inverse-primary", palette: primary, light: 80, dark: 40},
}

// CustomColor is an extra named colour exposed next to the scheme.
type CustomColor struct {
	Name  string
	Value colorful.Color
	// Blend harmonizes the colour toward the seed.
	Blend bool
}

// ParseCustomColors parses "name:#rrggbb" entries. Colours are blended
// unless the entry ends in ":noblend".
func ParseCustomColors(entries []string) ([]CustomColor, error) {
	out := make([]CustomColor, 0, len(entries))
	for _, e := range entries {
		parts := strings.Split(strings.TrimSpace(e), ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("custom colour %q must look like name:#rrggbb", e)
		}
		name := strings.ToLower(parts[0])
		if !customName.MatchString(name) {
			return nil, fmt.Errorf("custom colour name %q must be lowercase letters, digits and dashes", parts[0])
		}
		value, err := ParseHex(parts[1])
		if err != nil {
			return nil, err
		}
		blend := true
		if len(parts) == 3 {
			if parts[2] != "noblend" {
				return nil, fmt.Errorf("custom colour %q: unknown option %q", e, parts[2])
			}
			blend = false
		}
		out = append(out, CustomColor{Name: name, Value: value, Blend: blend})
	}
	return out, nil
}

// Theme is a light and a dark scheme generated from one seed.
type Theme struct {
	Seed  colorful.Color
	Core  Core
	Light []Token
	Dark  []Token
}

// New builds the theme for seed and custom colours.
func New(seed colorful.Color, custom []CustomColor) *Theme {
	core := NewCore(seed)
	t := &Theme{Seed: seed, Core: core}
	for _, r := range roles {
		p := r.palette(core)
		t.Light = append(t.Light, Token{Name: "--md-sys-color-" + r.name, Value: p.Tone(r.light).Hex()})
		t.Dark = append(t.Dark, Token{Name: "--md-sys-color-" + r.name, Value: p.Tone(r.dark).Hex()})
	}

	for _, cc := range custom {
		value := cc.Value
		if cc.Blend {
			value = Harmonize(value, seed)
		}
		h, c, _ := value.Hcl()
		p := Palette{Hue: h, Chroma: c}
		prefix := "--md-custom-color-"
		t.Light = append(t.Light,
			Token{Name: prefix + cc.Name, Value: p.Tone(40).Hex()},
			Token{Name: prefix + "on-" + cc.Name, Value: p.Tone(100).Hex()},
			Token{Name: prefix + cc.Name + "-container", Value: p.Tone(90).Hex()},
			Token{Name: prefix + "on-" + cc.Name + "-container", Value: p.Tone(10).Hex()},
		)
		t.Dark = append(t.Dark,
			Token{Name: prefix + cc.Name, Value: p.Tone(80).Hex()},
			Token{Name: prefix + "on-" + cc.Name, Value: p.Tone(20).Hex()},
			Token{Name: prefix + cc.Name + "-container", Value: p.Tone(30).Hex()},
			Token{Name: prefix + "on-" + cc.Name + "-container", Value: p.Tone(90).Hex()},
		)
	}
	return t
}

// Lookup returns the light and dark values of a token.
func (t *Theme) Lookup(name string) (light, dark string, ok bool) {
	for i, tok := range t.Light {
		if tok.Name == name {
			return tok.Value, t.Dark[i].Value, true
		}
	}
	return "", "", false
}

// WriteCSS writes the theme as custom properties on :root, with the dark
// scheme behind a prefers-color-scheme media query.
func (t *Theme) WriteCSS(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	fmt.Fprintf(&sb, "  --font-sans: %s;\n  --font-mono: %s;\n", FontSans, FontMono)
	for _, tok := range t.Light {
		fmt.Fprintf(&sb, "  %s: %s;\n", tok.Name, tok.Value)
	}
	sb.WriteString("  color-scheme: light dark;\n}\n\n")
	sb.WriteString("@media (prefers-color-scheme: dark) {\n  :root {\n")
	for _, tok := range t.Dark {
		fmt.Fprintf(&sb, "    %s: %s;\n", tok.Name, tok.Value)
	}
	sb.WriteString("  }\n}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

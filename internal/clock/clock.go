// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package clock serves the clock widget.
package clock

import (
	"context"
	"fmt"
	"time"

	"github.com/kken7231/screensaver/internal/datefmt"
	"github.com/kken7231/screensaver/internal/layout"
	"github.com/kken7231/screensaver/internal/widget"
)

// Provider returns the current date and time. The page advances the
// seconds of the time field locally and refetches once a minute.
type Provider struct {
	loc *time.Location
	now func() time.Time
}

// NewProvider creates a clock showing time in loc.
func NewProvider(loc *time.Location) *Provider {
	if loc == nil {
		loc = time.Local
	}
	return &Provider{loc: loc, now: time.Now}
}

// Type implements widget.Provider.
func (p *Provider) Type() layout.WidgetType { return layout.ClockWidget }

// Sizes implements widget.Provider.
func (p *Provider) Sizes() []layout.WidgetSize { return []layout.WidgetSize{layout.MiddleH} }

// ShowUpdateButton implements widget.Provider.
func (p *Provider) ShowUpdateButton() bool { return false }

// CacheTTL disables caching.
func (p *Provider) CacheTTL() time.Duration { return 0 }

// CheckData implements widget.Provider.
func (p *Provider) CheckData(data map[string]any) error {
	for k := range data {
		return fmt.Errorf("unexpected data key %q", k)
	}
	return nil
}

// Fetch implements widget.Provider.
func (p *Provider) Fetch(_ context.Context, q widget.Query) (widget.Document, error) {
	now := p.now().In(p.loc)
	return widget.Document{
		"date": datefmt.JapaneseDate(now, q.Lang),
		"time": datefmt.Clock(now),
		"lang": q.Lang,
	}, nil
}

var (
	_ widget.Provider   = (*Provider)(nil)
	_ widget.CacheTTLer = (*Provider)(nil)
)

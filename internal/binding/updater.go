// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package binding

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// Fetcher retrieves the document for one widget.
type Fetcher interface {
	Fetch(ctx context.Context, widgetType, query string) (Value, error)
}

// Outcome pairs a request with its result.
type Outcome struct {
	Request Request
	Report  Report
	Err     error
}

// Updater fetches widget documents and binds them into an HTML tree.
type Updater struct {
	fetcher     Fetcher
	binder      *Binder
	logger      *slog.Logger
	concurrency int

	// guards the tree; html.Node is not safe for concurrent mutation
	mu sync.Mutex
}

// NewUpdater creates an Updater. concurrency bounds UpdateAll; values below 1
// mean 4.
func NewUpdater(fetcher Fetcher, binder *Binder, logger *slog.Logger, concurrency int) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	if binder == nil {
		binder = NewBinder(WithLogger(logger))
	}
	if concurrency < 1 {
		concurrency = 4
	}
	return &Updater{
		fetcher:     fetcher,
		binder:      binder,
		logger:      logger,
		concurrency: concurrency,
	}
}

// UpdateData fetches the widget document and writes it into the targets found
// under root. When the fetch fails the error is logged, returned, and the tree
// is not modified.
func (u *Updater) UpdateData(ctx context.Context, root *html.Node, req Request) (Report, error) {
	doc, err := u.fetcher.Fetch(ctx, req.WidgetType, req.Query)
	if err != nil {
		u.logger.Error("failed to update widget",
			"widget_id", req.WidgetID,
			"widget_type", req.WidgetType,
			"error", err,
			"category", "binder")
		return Report{WidgetID: req.WidgetID}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	targets, err := DiscoverTargets(root, req.WidgetID)
	if err != nil {
		u.logger.Error("failed to discover widget targets",
			"widget_id", req.WidgetID,
			"error", err,
			"category", "binder")
		return Report{WidgetID: req.WidgetID}, err
	}

	report := u.binder.Apply(req.WidgetID, doc, targets)
	u.logger.Debug("widget bound",
		"widget_id", req.WidgetID,
		"targets", len(report.Results),
		"unresolved", report.Unresolved())
	return report, nil
}

// UpdateAll runs UpdateData for every request concurrently. A failing widget
// does not stop the others; outcomes are returned in request order.
func (u *Updater) UpdateAll(ctx context.Context, root *html.Node, reqs []Request) []Outcome {
	outcomes := make([]Outcome, len(reqs))

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			report, err := u.UpdateData(ctx, root, req)
			outcomes[i] = Outcome{Request: req, Report: report, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/kken7231/screensaver/internal/binding"
	"github.com/kken7231/screensaver/internal/config"
	"github.com/kken7231/screensaver/internal/logging"
	"github.com/kken7231/screensaver/internal/render"
)

var snapshotOpts struct {
	url         string
	layout      string
	out         string
	concurrency int
	timeout     time.Duration
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write a static copy of a running dashboard",
	Long: `Fetch a layout page from a running server, fill every widget the way
the browser would, and write the result as static HTML without scripts.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotOpts.url, "url", "", "server base URL (default SCREENSAVER_PUBLIC_URL or the local listen address)")
	snapshotCmd.Flags().StringVar(&snapshotOpts.layout, "layout", "", "layout name (default the server's default layout)")
	snapshotCmd.Flags().StringVarP(&snapshotOpts.out, "out", "o", "-", "output file, - for stdout")
	snapshotCmd.Flags().IntVar(&snapshotOpts.concurrency, "concurrency", 0, "parallel widget fetches (default SCREENSAVER_SNAPSHOT_CONCURRENCY)")
	snapshotCmd.Flags().DurationVar(&snapshotOpts.timeout, "timeout", 30*time.Second, "overall timeout")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, nil)

	base := snapshotOpts.url
	if base == "" {
		base = cfg.BaseURL()
	}
	concurrency := snapshotOpts.concurrency
	if concurrency < 1 {
		concurrency = cfg.SnapshotConcurrency
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), snapshotOpts.timeout)
	defer cancel()

	httpClient := &http.Client{Timeout: snapshotOpts.timeout}
	root, err := fetchPage(ctx, httpClient, base, snapshotOpts.layout)
	if err != nil {
		return err
	}

	client := binding.NewClient(base, httpClient, logger)
	binder := binding.NewBinder(binding.WithSanitizer(render.MarkupPolicy()), binding.WithLogger(logger))
	updater := binding.NewUpdater(client, binder, logger, concurrency)

	reqs := pageRequests(root)
	failed := 0
	for _, o := range updater.UpdateAll(ctx, root, reqs) {
		if o.Err != nil {
			failed++
		}
	}
	removeScripts(root)
	logger.Info("snapshot hydrated", "url", base, "lang", binding.PageLang(root), "widgets", len(reqs), "failed", failed)

	return writeSnapshot(cmd.OutOrStdout(), snapshotOpts.out, root)
}

// fetchPage downloads and parses the layout page.
func fetchPage(ctx context.Context, client *http.Client, base, layoutName string) (*html.Node, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing --url: %w", err)
	}
	u = u.JoinPath("/")
	if layoutName != "" {
		u.RawQuery = url.Values{"layout": {layoutName}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", u, resp.StatusCode)
	}
	root, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", u, err)
	}
	return root, nil
}

// pageRequests lists the page's widgets with the page language added to each
// query, as the page script does.
func pageRequests(root *html.Node) []binding.Request {
	lang := binding.PageLang(root)
	reqs := binding.DiscoverWidgets(root)
	for i := range reqs {
		reqs[i].Query = binding.WithLang(reqs[i].Query, lang)
	}
	return reqs
}

// removeScripts drops script elements so the snapshot stays static.
func removeScripts(root *html.Node) {
	for _, n := range htmlquery.Find(root, "//script") {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func writeSnapshot(stdout io.Writer, path string, root *html.Node) error {
	if path == "" || path == "-" {
		return html.Render(stdout, root)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := html.Render(f, root); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Debug("snapshot written", "path", path)
	return nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package binding

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIPrefix is the path under which widget endpoints are served.
const APIPrefix = "/api/"

// ErrorKind classifies a failed fetch.
type ErrorKind int

// Fetch failure kinds.
const (
	// ErrKindRequest means the request could not be built.
	ErrKindRequest ErrorKind = iota
	// ErrKindTransport means the request failed before a response arrived.
	ErrKindTransport
	// ErrKindDecode means the response body was not a single JSON document.
	ErrKindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindRequest:
		return "request"
	case ErrKindTransport:
		return "transport"
	case ErrKindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is returned by Client.Fetch.
type FetchError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s error fetching %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches widget documents from a dashboard server.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the server at baseURL.
// A nil httpClient gets a client with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// URL returns the endpoint for a widget type. The query is appended verbatim.
func (c *Client) URL(widgetType, query string) string {
	return c.baseURL + APIPrefix + url.PathEscape(widgetType) + "?" + query
}

// WithLang adds lang to query unless it already names one.
func WithLang(query, lang string) string {
	if lang == "" {
		return query
	}
	if vals, err := url.ParseQuery(query); err == nil && vals.Has("lang") {
		return query
	}
	if query == "" {
		return "lang=" + url.QueryEscape(lang)
	}
	return query + "&lang=" + url.QueryEscape(lang)
}

// Fetch issues GET {base}/api/{widgetType}?{query} and decodes the body.
// The status code is not inspected: an error document is still a document,
// and its unknown keys bind to the placeholder.
func (c *Client) Fetch(ctx context.Context, widgetType, query string) (Value, error) {
	u := c.URL(widgetType, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Value{}, &FetchError{Kind: ErrKindRequest, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Value{}, &FetchError{Kind: ErrKindTransport, URL: u, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("widget endpoint returned error status",
			"url", u,
			"status", resp.StatusCode,
			"category", "binder")
	}

	doc, err := Decode(resp.Body)
	if err != nil {
		return Value{}, &FetchError{Kind: ErrKindDecode, URL: u, Err: err}
	}
	return doc, nil
}

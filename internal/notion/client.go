// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notion serves the notioncalendar widget from a Notion database.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Defaults for the Notion API.
const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"

	maxBodySize = 4 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	DatabaseID string
	Version    string

	NameProperty     string
	DateProperty     string
	CategoryProperty string
	CategoryValue    string

	// RateLimit is requests per second. Zero disables limiting.
	RateLimit  float64
	HTTPClient *http.Client
}

// APIError is an error object returned by Notion.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("notion: status %d: %s", e.Status, e.Message)
}

// Client queries one Notion database for the events of a day.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
	}
}

type dateCondition struct {
	OnOrAfter string `json:"on_or_after,omitempty"`
	Before    string `json:"before,omitempty"`
}

type selectCondition struct {
	Equals string `json:"equals"`
}

type filter struct {
	Property string           `json:"property,omitempty"`
	Date     *dateCondition   `json:"date,omitempty"`
	Select   *selectCondition `json:"select,omitempty"`
	And      []filter         `json:"and,omitempty"`
}

type queryRequest struct {
	Filter filter `json:"filter"`
}

// dayFilter selects entries overlapping day in the configured category.
func (c *Client) dayFilter(day time.Time) queryRequest {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	next := start.AddDate(0, 0, 1)

	and := []filter{
		{Property: c.cfg.DateProperty, Date: &dateCondition{OnOrAfter: start.Format(time.RFC3339)}},
		{Property: c.cfg.DateProperty, Date: &dateCondition{Before: next.Format(time.RFC3339)}},
	}
	if c.cfg.CategoryProperty != "" && c.cfg.CategoryValue != "" {
		and = append(and, filter{Property: c.cfg.CategoryProperty, Select: &selectCondition{Equals: c.cfg.CategoryValue}})
	}
	return queryRequest{Filter: filter{And: and}}
}

// Query fetches the raw database entries for day.
func (c *Client) Query(ctx context.Context, day time.Time) (QueryResponse, error) {
	body, err := json.Marshal(c.dayFilter(day))
	if err != nil {
		return QueryResponse{}, fmt.Errorf("encoding notion filter: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return QueryResponse{}, fmt.Errorf("waiting for notion rate limit: %w", err)
	}

	u := fmt.Sprintf("%s/v1/databases/%s/query", c.cfg.BaseURL, url.PathEscape(c.cfg.DatabaseID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return QueryResponse{}, fmt.Errorf("creating notion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Notion-Version", c.cfg.Version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("fetching notion calendar data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out QueryResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&out)
	if out.Object == "error" {
		return QueryResponse{}, &APIError{Status: resp.StatusCode, Code: out.Code, Message: out.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return QueryResponse{}, &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if decodeErr != nil {
		return QueryResponse{}, fmt.Errorf("decoding notion calendar data: %w", decodeErr)
	}
	return out, nil
}

// Events fetches and parses the events of day. Times are returned in day's
// location.
func (c *Client) Events(ctx context.Context, day time.Time) ([]Event, error) {
	resp, err := c.Query(ctx, day)
	if err != nil {
		return nil, err
	}
	return Parse(resp, c.cfg.NameProperty, c.cfg.DateProperty, day.Location())
}

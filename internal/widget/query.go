// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package widget

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kken7231/screensaver/internal/i18n"
	"github.com/kken7231/screensaver/internal/layout"
)

// Query is a parsed widget API query.
type Query struct {
	Size   layout.WidgetSize
	Lang   string
	Params url.Values
}

// ParseQuery parses a raw query string. size is required and must be a known
// size. lang falls back to defaultLang.
func ParseQuery(raw, defaultLang string) (Query, error) {
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return Query{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return NewQuery(vals, defaultLang)
}

// NewQuery builds a Query from already-parsed values.
func NewQuery(vals url.Values, defaultLang string) (Query, error) {
	raw := strings.TrimSpace(vals.Get("size"))
	if raw == "" {
		return Query{}, ErrMissingSize
	}
	size := layout.WidgetSize(raw)
	if !size.Valid() {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalidSize, raw)
	}

	lang := defaultLang
	if l := vals.Get("lang"); l != "" {
		lang = i18n.MatchLanguage(l)
	}
	if lang == "" {
		lang = i18n.DefaultLanguage
	}

	params := url.Values{}
	for k, v := range vals {
		if k == "size" || k == "lang" {
			continue
		}
		params[k] = v
	}
	return Query{Size: size, Lang: lang, Params: params}, nil
}

// Get returns the first value for key.
func (q Query) Get(key string) string {
	return q.Params.Get(key)
}

// Require returns the value for key or an ErrInvalidQuery naming it.
func (q Query) Require(key string) (string, error) {
	v := strings.TrimSpace(q.Params.Get(key))
	if v == "" {
		return "", fmt.Errorf("%w: missing %s", ErrInvalidQuery, key)
	}
	return v, nil
}

// Float parses the value for key as a float.
func (q Query) Float(key string) (float64, error) {
	v, err := q.Require(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a number", ErrInvalidQuery, key)
	}
	return f, nil
}

// Canonical returns a stable encoding of the query, used as cache key.
func (q Query) Canonical() string {
	vals := url.Values{}
	for k, v := range q.Params {
		vals[k] = v
	}
	vals.Set("size", string(q.Size))
	vals.Set("lang", q.Lang)
	return vals.Encode()
}

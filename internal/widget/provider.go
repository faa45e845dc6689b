// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package widget serves widget documents: each widget type has a Provider
// that turns a query into the JSON the page binds into its elements.
package widget

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kken7231/screensaver/internal/layout"
)

// Sentinel errors. Handlers map ErrUnknownWidgetType to 404 and the others to
// 400.
var (
	ErrUnknownWidgetType = errors.New("unknown widget type")
	ErrMissingSize       = errors.New("please provide size information")
	ErrInvalidSize       = errors.New("invalid size")
	ErrUnsupportedSize   = errors.New("size not supported by widget")
	ErrInvalidQuery      = errors.New("invalid widget query")
	ErrInvalidData       = errors.New("invalid widget data")
)

// Document is the JSON object returned for a widget.
type Document = map[string]any

// Provider produces documents for one widget type.
type Provider interface {
	Type() layout.WidgetType
	Sizes() []layout.WidgetSize
	ShowUpdateButton() bool
	// CheckData validates the data block of a layout entry.
	CheckData(data map[string]any) error
	Fetch(ctx context.Context, q Query) (Document, error)
}

// CacheTTLer is implemented by providers that want a TTL other than the
// service default. A TTL of zero or less disables caching.
type CacheTTLer interface {
	CacheTTL() time.Duration
}

// Supports reports whether p renders at size.
func Supports(p Provider, size layout.WidgetSize) bool {
	return slices.Contains(p.Sizes(), size)
}

// Registry maps widget types to providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[layout.WidgetType]Provider
}

// NewRegistry creates a registry holding providers.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{providers: make(map[layout.WidgetType]Provider)}
	for _, p := range providers {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a provider. Registering a type twice is an error.
func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[p.Type()]; exists {
		return fmt.Errorf("widget type %q already registered", p.Type())
	}
	r.providers[p.Type()] = p
	return nil
}

// Get returns the provider for t.
func (r *Registry) Get(t layout.WidgetType) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidgetType, t)
	}
	return p, nil
}

// Types returns the registered widget types, sorted.
func (r *Registry) Types() []layout.WidgetType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]layout.WidgetType, 0, len(r.providers))
	for t := range r.providers {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Check validates a layout widget against its provider.
func (r *Registry) Check(w layout.Widget) error {
	p, err := r.Get(w.Type)
	if err != nil {
		return err
	}
	if !Supports(p, w.Size) {
		return fmt.Errorf("%w: %s does not support %s", ErrUnsupportedSize, w.Type, w.Size)
	}
	if err := p.CheckData(w.Data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}

// ShowUpdateButton reports whether widgets of type t get a refresh button.
func (r *Registry) ShowUpdateButton(t layout.WidgetType) bool {
	p, err := r.Get(t)
	if err != nil {
		return false
	}
	return p.ShowUpdateButton()
}

var _ layout.Checker = (*Registry)(nil)

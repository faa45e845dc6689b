// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package widget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kken7231/screensaver/internal/cache"
	"github.com/kken7231/screensaver/internal/layout"
)

const cacheKeyPrefix = "widget:"

// Service validates widget queries and caches provider documents.
type Service struct {
	registry    *Registry
	cacher      cache.Cacher
	docs        *cache.TypedCache[Document]
	ttl         time.Duration
	defaultLang string
	logger      *slog.Logger
}

// NewService creates a Service. cacher may be nil to disable caching.
func NewService(registry *Registry, cacher cache.Cacher, ttl time.Duration, defaultLang string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		registry:    registry,
		cacher:      cacher,
		ttl:         ttl,
		defaultLang: defaultLang,
		logger:      logger,
	}
	if cacher != nil {
		s.docs = cache.NewTypedCache[Document](cacher, ttl)
	}
	return s
}

// Registry returns the provider registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Data returns the document for widgetType and rawQuery, from cache when
// possible.
func (s *Service) Data(ctx context.Context, widgetType, rawQuery string) (Document, error) {
	p, q, err := s.resolve(widgetType, rawQuery)
	if err != nil {
		return nil, err
	}

	ttl := s.ttlFor(p)
	if s.docs == nil || ttl <= 0 {
		return s.fetch(ctx, p, q)
	}
	return s.docs.GetOrSetWithTTL(ctx, cacheKey(p.Type(), q), ttl, func(ctx context.Context) (Document, error) {
		return s.fetch(ctx, p, q)
	})
}

// Refresh fetches a fresh document, bypassing and then updating the cache.
func (s *Service) Refresh(ctx context.Context, widgetType, rawQuery string) (Document, error) {
	p, q, err := s.resolve(widgetType, rawQuery)
	if err != nil {
		return nil, err
	}

	doc, err := s.fetch(ctx, p, q)
	if err != nil {
		return nil, err
	}
	if ttl := s.ttlFor(p); s.docs != nil && ttl > 0 {
		if err := s.docs.SetWithTTL(ctx, cacheKey(p.Type(), q), doc, ttl); err != nil {
			s.logger.Warn("failed to cache widget document", "widget_type", widgetType, "error", err, "category", "cache")
		}
	}
	return doc, nil
}

// Invalidate drops every cached document of widgetType.
func (s *Service) Invalidate(ctx context.Context, widgetType layout.WidgetType) error {
	if s.cacher == nil {
		return nil
	}
	return s.cacher.DeleteByPrefix(ctx, cacheKeyPrefix+string(widgetType)+":")
}

func (s *Service) resolve(widgetType, rawQuery string) (Provider, Query, error) {
	p, err := s.registry.Get(layout.WidgetType(widgetType))
	if err != nil {
		return nil, Query{}, err
	}
	q, err := ParseQuery(rawQuery, s.defaultLang)
	if err != nil {
		return nil, Query{}, err
	}
	if !Supports(p, q.Size) {
		return nil, Query{}, fmt.Errorf("%w: %s does not support %s", ErrUnsupportedSize, widgetType, q.Size)
	}
	return p, q, nil
}

func (s *Service) fetch(ctx context.Context, p Provider, q Query) (Document, error) {
	start := time.Now()
	doc, err := p.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Type(), err)
	}
	s.logger.Debug("widget document fetched",
		"widget_type", p.Type(),
		"size", q.Size,
		"duration", time.Since(start),
		"category", "widget")
	return doc, nil
}

func (s *Service) ttlFor(p Provider) time.Duration {
	if t, ok := p.(CacheTTLer); ok {
		return t.CacheTTL()
	}
	return s.ttl
}

func cacheKey(t layout.WidgetType, q Query) string {
	return cacheKeyPrefix + string(t) + ":" + q.Canonical()
}

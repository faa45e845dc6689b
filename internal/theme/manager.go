// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package theme

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Manager holds the active theme and its compiled stylesheet.
type Manager struct {
	mu      sync.RWMutex
	active  *Theme
	css     []byte
	etag    string
	modTime time.Time
	seedHex string
	logger  *slog.Logger
}

// NewManager creates a theme manager. Call Load before serving.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// Load builds the theme for seedHex and custom colour entries
// ("name:#rrggbb") and makes it active.
func (m *Manager) Load(seedHex string, customEntries []string) error {
	seed, err := ParseHex(seedHex)
	if err != nil {
		return fmt.Errorf("theme seed: %w", err)
	}
	custom, err := ParseCustomColors(customEntries)
	if err != nil {
		return err
	}

	t := New(seed, custom)
	var buf bytes.Buffer
	if err := t.WriteCSS(&buf); err != nil {
		return fmt.Errorf("rendering theme css: %w", err)
	}
	sum := sha256.Sum256(buf.Bytes())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = t
	m.css = buf.Bytes()
	m.etag = `"` + hex.EncodeToString(sum[:8]) + `"`
	m.modTime = time.Now().UTC().Truncate(time.Second)
	m.seedHex = seedHex

	m.logger.Info("theme loaded", "seed", seedHex, "custom_colors", len(custom), "tokens", len(t.Light))
	return nil
}

// Active returns the active theme, or nil before Load.
func (m *Manager) Active() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// CSS returns the stylesheet with its ETag and modification time.
func (m *Manager) CSS() (css []byte, etag string, modTime time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.css, m.etag, m.modTime
}

// Seed returns the seed colour of the active theme.
func (m *Manager) Seed() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.seedHex
}

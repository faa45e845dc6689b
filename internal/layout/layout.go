// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package layout loads dashboard layouts: a grid size plus the widgets placed
// on it.
package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors.
var (
	ErrLayoutNotFound = errors.New("layout not found")
	ErrInvalidName    = errors.New("invalid layout name")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// extensions are tried in order when resolving a layout name.
var extensions = []string{".json", ".yaml", ".yml"}

// Layout describes a dashboard grid. Rows and columns are 1-based.
type Layout struct {
	Name    string   `json:"name" yaml:"name"`
	Rows    int      `json:"rows" yaml:"rows"`
	Cols    int      `json:"cols" yaml:"cols"`
	Widgets []Widget `json:"widgets" yaml:"widgets"`
}

// Checker validates a widget's type, size and data.
type Checker interface {
	Check(w Widget) error
}

// Validate checks grid bounds, overlaps and, when c is not nil, each widget.
func (l Layout) Validate(c Checker) error {
	if l.Rows < 1 || l.Cols < 1 {
		return fmt.Errorf("layout %q: grid must be at least 1x1, got %dx%d", l.Name, l.Rows, l.Cols)
	}

	occupied := make(map[[2]int]string)
	for _, w := range l.Widgets {
		if !w.Size.Valid() {
			return fmt.Errorf("widget %s: unknown size %q", w.ID(), w.Size)
		}
		rows, cols := w.Span()
		if w.Row < 1 || w.Col < 1 || w.Row+rows-1 > l.Rows || w.Col+cols-1 > l.Cols {
			return fmt.Errorf("widget %s: %s does not fit a %dx%d grid", w.ID(), w.Size, l.Rows, l.Cols)
		}
		for r := w.Row; r < w.Row+rows; r++ {
			for col := w.Col; col < w.Col+cols; col++ {
				if other, ok := occupied[[2]int{r, col}]; ok {
					return fmt.Errorf("widget %s overlaps %s at r%d c%d", w.ID(), other, r, col)
				}
				occupied[[2]int{r, col}] = w.ID()
			}
		}
		if c != nil {
			if err := c.Check(w); err != nil {
				return fmt.Errorf("widget %s: %w", w.ID(), err)
			}
		}
	}
	return nil
}

// Store reads layouts from a directory.
type Store struct {
	dir         string
	defaultName string
	checker     Checker
	logger      *slog.Logger
}

// NewStore creates a Store rooted at dir. An empty name passed to Load
// resolves to defaultName.
func NewStore(dir, defaultName string, checker Checker, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dir:         dir,
		defaultName: defaultName,
		checker:     checker,
		logger:      logger,
	}
}

// DefaultName returns the layout used when none is requested.
func (s *Store) DefaultName() string {
	return s.defaultName
}

// Load reads and validates the named layout.
func (s *Store) Load(name string) (*Layout, error) {
	if name == "" {
		name = s.defaultName
	}
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	for _, ext := range extensions {
		path := filepath.Join(s.dir, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading layout %s: %w", path, err)
		}

		l, err := decode(data, ext)
		if err != nil {
			return nil, fmt.Errorf("parsing layout %s: %w", path, err)
		}
		if l.Name == "" {
			l.Name = name
		}
		if err := l.Validate(s.checker); err != nil {
			return nil, err
		}

		s.logger.Debug("layout loaded", "name", name, "path", path, "widgets", len(l.Widgets))
		return l, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
}

// List returns the names of all layouts in the directory, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing layouts: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !isLayoutExt(ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if !validName.MatchString(name) || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadAll loads every listed layout, skipping and logging invalid ones.
func (s *Store) LoadAll() ([]*Layout, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	layouts := make([]*Layout, 0, len(names))
	for _, name := range names {
		l, err := s.Load(name)
		if err != nil {
			s.logger.Warn("skipping invalid layout", "name", name, "error", err, "category", "layout")
			continue
		}
		layouts = append(layouts, l)
	}
	return layouts, nil
}

func isLayoutExt(ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func decode(data []byte, ext string) (*Layout, error) {
	var l Layout
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &l); err != nil {
			return nil, err
		}
	}
	return &l, nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides the message catalog for dashboard text: weekday and
// era names, weather descriptions and widget labels.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	matcher      language.Matcher
	supported    []language.Tag
	defaultLang  string
	logger       *slog.Logger
}

var (
	catalogMu sync.RWMutex
	catalog   *Catalog
)

// DefaultLanguage is used when a requested language has no catalog.
const DefaultLanguage = "en"

// SupportedLanguages lists the languages we ship catalogs for.
var SupportedLanguages = []string{"en", "ja"}

// Init (re)loads the catalog. Callers that never call Init get a catalog
// loaded without a logger on first use.
func Init(logger *slog.Logger) error {
	c, err := newCatalog(logger)
	if err != nil {
		return err
	}

	catalogMu.Lock()
	catalog = c
	catalogMu.Unlock()

	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}
	return nil
}

func newCatalog(logger *slog.Logger) (*Catalog, error) {
	c := &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  DefaultLanguage,
		logger:       logger,
	}

	tags := make([]language.Tag, 0, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		tags = append(tags, language.MustParse(lang))
	}
	c.supported = tags
	c.matcher = language.NewMatcher(tags)

	for _, lang := range SupportedLanguages {
		if err := c.loadLanguage(lang); err != nil {
			return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}
	return c, nil
}

// current returns the active catalog, loading it on first use.
func current() *Catalog {
	catalogMu.RLock()
	c := catalog
	catalogMu.RUnlock()
	if c != nil {
		return c
	}

	catalogMu.Lock()
	defer catalogMu.Unlock()
	if catalog == nil {
		loaded, err := newCatalog(nil)
		if err != nil {
			// The catalog is embedded; failing here means a broken build.
			panic(err)
		}
		catalog = loaded
	}
	return catalog
}

// loadLanguage loads translations for a specific language.
func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.translations[lang] = make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(msgFile.Messages))
	}
	return nil
}

// Lookup returns the translation for key, falling back to the default
// language. It reports false when neither catalog has the key.
func Lookup(lang, key string) (string, bool) {
	c := current()
	c.mu.RLock()
	defer c.mu.RUnlock()

	if translations, ok := c.translations[lang]; ok {
		if s, ok := translations[key]; ok {
			return s, true
		}
	}
	if lang != c.defaultLang {
		if s, ok := c.translations[c.defaultLang][key]; ok {
			if c.logger != nil {
				c.logger.Debug("missing translation, using default", "key", key, "lang", lang)
			}
			return s, true
		}
	}
	return "", false
}

// T translates a message key to the specified language.
// If the key is not found, it returns the key itself.
// Supports optional arguments for string formatting.
func T(lang, key string, args ...any) string {
	translation, ok := Lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// GetSupportedLanguages returns the list of supported languages.
func GetSupportedLanguages() []string {
	return SupportedLanguages
}

// MatchLanguage finds the best matching supported language for the given
// string, which may be a single tag or an Accept-Language header.
// Returns the language code (e.g., "en", "ja").
func MatchLanguage(acceptLang string) string {
	c := current()
	if strings.EqualFold(acceptLang, "jp") {
		return "ja"
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return c.defaultLang
		}
		tags = []language.Tag{tag}
	}

	_, idx, confidence := c.matcher.Match(tags...)
	if confidence == language.No {
		return c.defaultLang
	}
	if idx >= 0 && idx < len(c.supported) {
		return c.supported[idx].String()
	}
	return c.defaultLang
}

// IsSupported checks if a language code is supported.
func IsSupported(lang string) bool {
	lang = strings.ToLower(lang)
	for _, supported := range SupportedLanguages {
		if supported == lang {
			return true
		}
	}
	return false
}

// TranslationCount returns the number of translations loaded for a language.
func TranslationCount(lang string) int {
	c := current()
	c.mu.RLock()
	defer c.mu.RUnlock()

	if translations, ok := c.translations[lang]; ok {
		return len(translations)
	}
	return 0
}

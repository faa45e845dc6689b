// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"SCREENSAVER_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"SCREENSAVER_SERVER_PORT" envDefault:"8080"`
	PublicURL  string `env:"SCREENSAVER_PUBLIC_URL"` // Base URL the snapshot binder calls back into
	Env        string `env:"SCREENSAVER_ENV" envDefault:"development"`
	LogLevel   string `env:"SCREENSAVER_LOG_LEVEL" envDefault:"info"`

	// Dashboard
	LayoutsDir    string `env:"SCREENSAVER_LAYOUTS_DIR" envDefault:"./layouts"`
	DefaultLayout string `env:"SCREENSAVER_DEFAULT_LAYOUT" envDefault:"default"`
	Lang          string `env:"SCREENSAVER_LANG" envDefault:"en"`

	// Theme
	ThemeSeed         string   `env:"SCREENSAVER_THEME_SEED" envDefault:"#f82506"`
	ThemeCustomColors []string `env:"SCREENSAVER_THEME_CUSTOM_COLORS" envSeparator:"," envDefault:"custom-1:#ff0000"`

	// Notion calendar
	NotionAPIKey           string  `env:"SCREENSAVER_NOTION_API_KEY"`
	NotionDatabaseID       string  `env:"SCREENSAVER_NOTION_DATABASE_ID"`
	NotionVersion          string  `env:"SCREENSAVER_NOTION_VERSION" envDefault:"2022-06-28"`
	NotionNameProperty     string  `env:"SCREENSAVER_NOTION_NAME_PROPERTY" envDefault:"名前"`
	NotionDateProperty     string  `env:"SCREENSAVER_NOTION_DATE_PROPERTY" envDefault:"日付"`
	NotionCategoryProperty string  `env:"SCREENSAVER_NOTION_CATEGORY_PROPERTY" envDefault:"カテゴリ"`
	NotionCategoryValue    string  `env:"SCREENSAVER_NOTION_CATEGORY_VALUE" envDefault:"EV"`
	NotionRateLimit        float64 `env:"SCREENSAVER_NOTION_RATE_LIMIT" envDefault:"3"` // Requests per second

	// Weather
	WeatherForecastURL string        `env:"SCREENSAVER_WEATHER_FORECAST_URL" envDefault:"https://api.open-meteo.com/v1/jma"`
	WeatherTimezone    string        `env:"SCREENSAVER_WEATHER_TIMEZONE" envDefault:"Asia/Tokyo"`
	AmedasURL          string        `env:"SCREENSAVER_AMEDAS_URL" envDefault:"https://www.jma.go.jp/bosai/amedas/data/point"`
	UpstreamTimeout    time.Duration `env:"SCREENSAVER_UPSTREAM_TIMEOUT" envDefault:"10s"`

	// Cache configuration
	RedisURL     string `env:"SCREENSAVER_REDIS_URL"`                              // Optional Redis URL for distributed caching
	CachePrefix  string `env:"SCREENSAVER_CACHE_PREFIX" envDefault:"screensaver:"` // Redis key prefix
	CacheTTL     int    `env:"SCREENSAVER_CACHE_TTL" envDefault:"300"`             // Widget data TTL in seconds
	CacheMaxSize int    `env:"SCREENSAVER_CACHE_MAX_SIZE" envDefault:"1000"`       // Max memory cache entries

	// API rate limit per client IP; 0 disables
	APIRateLimit float64 `env:"SCREENSAVER_API_RATE_LIMIT" envDefault:"20"`
	APIRateBurst int     `env:"SCREENSAVER_API_RATE_BURST" envDefault:"40"`

	// Background refresh
	RefreshSchedule     string `env:"SCREENSAVER_REFRESH_SCHEDULE" envDefault:"*/10 * * * *"`
	SnapshotConcurrency int    `env:"SCREENSAVER_SNAPSHOT_CONCURRENCY" envDefault:"4"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// BaseURL returns PublicURL, or the local listen address when unset.
func (c Config) BaseURL() string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/")
	}
	host := c.ServerHost
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// NotionEnabled returns true if the Notion calendar is configured.
func (c Config) NotionEnabled() bool {
	return c.NotionAPIKey != "" && c.NotionDatabaseID != ""
}

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Lang = normalizeLang(cfg.Lang)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot.
func (c Config) Validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("SCREENSAVER_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if !hexColor.MatchString(c.ThemeSeed) {
		return fmt.Errorf("SCREENSAVER_THEME_SEED must be a #rrggbb color, got %q", c.ThemeSeed)
	}
	for _, cc := range c.ThemeCustomColors {
		name, value, ok := strings.Cut(cc, ":")
		if !ok || name == "" || !hexColor.MatchString(value) {
			return fmt.Errorf("SCREENSAVER_THEME_CUSTOM_COLORS entry %q must look like name:#rrggbb", cc)
		}
	}
	if _, err := language.Parse(c.Lang); err != nil {
		return fmt.Errorf("SCREENSAVER_LANG %q is not a language tag: %w", c.Lang, err)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("SCREENSAVER_CACHE_TTL must not be negative, got %d", c.CacheTTL)
	}
	if c.APIRateLimit < 0 {
		return fmt.Errorf("SCREENSAVER_API_RATE_LIMIT must not be negative, got %v", c.APIRateLimit)
	}
	if c.NotionRateLimit <= 0 {
		return fmt.Errorf("SCREENSAVER_NOTION_RATE_LIMIT must be positive, got %v", c.NotionRateLimit)
	}
	return nil
}

// normalizeLang accepts the country-style "JP" used by older layouts.
func normalizeLang(lang string) string {
	if strings.EqualFold(lang, "jp") {
		return "ja"
	}
	return strings.ToLower(lang)
}

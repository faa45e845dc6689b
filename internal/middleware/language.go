// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"github.com/kken7231/screensaver/internal/i18n"
)

// ContextKey is the type of request context keys set by this package.
type ContextKey string

// ContextKeyLanguage holds the negotiated language code.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "screensaver_lang"

// Language creates middleware that picks the dashboard language.
// Priority order:
// 1. Query parameter ?lang=XX (explicit switch, updates cookie)
// 2. Cookie preference
// 3. defaultLang
//
// The browser's Accept-Language is ignored: a screensaver follows the
// configured language, not whatever device happens to display it.
func Language(defaultLang string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := defaultLang

			if q := r.URL.Query().Get("lang"); q != "" {
				lang = i18n.MatchLanguage(q)
				SetLanguageCookie(w, lang)
			} else if cookie, err := r.Cookie(LanguageCookieName); err == nil && i18n.IsSupported(cookie.Value) {
				lang = cookie.Value
			}

			ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLanguage returns the language chosen by Language, or fallback when the
// middleware did not run.
func GetLanguage(r *http.Request, fallback string) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return fallback
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package binding

import (
	"regexp"
	"strings"
)

// Naming conventions shared with the page templates and the browser script.
const (
	ContentPrefix = "wgcontent"
	PathSeparator = "-"
	MarkupClass   = "wg-html"
	Placeholder   = "undefined"
)

// KeyPath is an ordered list of normalized field names.
type KeyPath []string

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// NormalizeSegment converts one camelCase segment to snake_case.
// Only a lowercase letter followed by an uppercase letter is a word boundary,
// so "userID" becomes "user_id", "HTMLBody" becomes "htmlbody" and digits are
// never split off.
func NormalizeSegment(s string) string {
	return strings.ToLower(camelBoundary.ReplaceAllString(s, "${1}_${2}"))
}

// ElementPrefix returns the id prefix owned by a widget, trailing separator
// included.
func ElementPrefix(widgetID string) string {
	return ContentPrefix + PathSeparator + widgetID + PathSeparator
}

// ParseKeyPath extracts the key path encoded in elementID for widgetID.
// It reports false when the id does not belong to the widget. An id equal to
// the prefix yields the single empty segment, which binds to the placeholder
// unless the document has an empty key.
func ParseKeyPath(elementID, widgetID string) (KeyPath, bool) {
	residual, ok := strings.CutPrefix(elementID, ElementPrefix(widgetID))
	if !ok {
		return nil, false
	}
	parts := strings.Split(residual, PathSeparator)
	path := make(KeyPath, len(parts))
	for i, p := range parts {
		path[i] = NormalizeSegment(p)
	}
	return path, true
}

// String joins the path with dots for logging.
func (p KeyPath) String() string {
	return strings.Join(p, ".")
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package binding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Widget container attributes written by the page renderer.
const (
	AttrWidgetID    = "data-widget-id"
	AttrWidgetType  = "data-widget-type"
	AttrWidgetQuery = "data-widget-query"
	AttrPageLang    = "data-lang"
)

// ErrInvalidWidgetID is returned for ids that cannot be expressed in a query.
var ErrInvalidWidgetID = errors.New("invalid widget id")

// Element is a DOM node that can receive bound content.
type Element interface {
	SetText(text string)
	SetHTML(markup string) error
}

// Target is an element resolved for one widget.
type Target struct {
	ID      string
	Element Element
	Path    KeyPath
	Markup  bool
}

// Request identifies one widget update.
type Request struct {
	WidgetID   string
	WidgetType string
	Query      string
}

// NodeElement adapts an *html.Node to Element.
type NodeElement struct {
	Node *html.Node
}

// SetText replaces the node's children with a single text node.
func (e NodeElement) SetText(text string) {
	removeChildren(e.Node)
	e.Node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// SetHTML parses markup in the context of the node and replaces its children.
// The node is left untouched when parsing fails.
func (e NodeElement) SetHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.Node)
	if err != nil {
		return fmt.Errorf("parsing markup: %w", err)
	}
	removeChildren(e.Node)
	for _, n := range nodes {
		e.Node.AppendChild(n)
	}
	return nil
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// DiscoverTargets finds every element under root whose id starts with
// ElementPrefix(widgetID), in document order.
func DiscoverTargets(root *html.Node, widgetID string) ([]Target, error) {
	prefix := ElementPrefix(widgetID)
	lit, err := xpathLiteral(prefix)
	if err != nil {
		return nil, err
	}

	nodes, err := htmlquery.QueryAll(root, "//*[starts-with(@id, "+lit+")]")
	if err != nil {
		return nil, fmt.Errorf("querying targets: %w", err)
	}

	targets := make([]Target, 0, len(nodes))
	for _, n := range nodes {
		id := htmlquery.SelectAttr(n, "id")
		path, ok := ParseKeyPath(id, widgetID)
		if !ok {
			continue
		}
		targets = append(targets, Target{
			ID:      id,
			Element: NodeElement{Node: n},
			Path:    path,
			Markup:  hasClass(n, MarkupClass),
		})
	}
	return targets, nil
}

// DiscoverWidgets lists the widget containers rendered into the page.
func DiscoverWidgets(root *html.Node) []Request {
	nodes := htmlquery.Find(root, "//*[@"+AttrWidgetID+" and @"+AttrWidgetType+"]")
	reqs := make([]Request, 0, len(nodes))
	for _, n := range nodes {
		reqs = append(reqs, Request{
			WidgetID:   htmlquery.SelectAttr(n, AttrWidgetID),
			WidgetType: htmlquery.SelectAttr(n, AttrWidgetType),
			Query:      htmlquery.SelectAttr(n, AttrWidgetQuery),
		})
	}
	return reqs
}

// PageLang returns the language the page was rendered in, or "" when the
// body carries no data-lang attribute.
func PageLang(root *html.Node) string {
	body := htmlquery.FindOne(root, "//body")
	if body == nil {
		return ""
	}
	return htmlquery.SelectAttr(body, AttrPageLang)
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(htmlquery.SelectAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// xpathLiteral quotes s for XPath 1.0, which has no escape sequences.
func xpathLiteral(s string) (string, error) {
	switch {
	case !strings.Contains(s, "'"):
		return "'" + s + "'", nil
	case !strings.Contains(s, `"`):
		return `"` + s + `"`, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWidgetID, s)
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the dashboard page.
	RouteRoot = "/"
	// RouteSnapshot is the server-side hydrated dashboard page.
	RouteSnapshot = "/snapshot"
	// RouteLayouts lists layout names.
	RouteLayouts = "/layouts"
	// RouteLayoutName returns one layout.
	RouteLayoutName = "/layouts/{name}"
	// RouteWidgetData serves widget documents.
	RouteWidgetData = "/api/{widgetType}"
	// RouteWidgetRefresh fetches a widget document bypassing the cache.
	RouteWidgetRefresh = "/api/{widgetType}/refresh"
	// RouteThemeCSS serves the generated colour scheme.
	RouteThemeCSS = "/theme.css"
	// RouteLive is the WebSocket endpoint for refresh notices.
	RouteLive = "/ws"
	// RouteHealth is the health check.
	RouteHealth = "/health"
	// RouteDiagnostics lists recent warnings and scheduled jobs.
	RouteDiagnostics = "/debug/diagnostics"
	// RouteJobRun triggers a scheduled job.
	RouteJobRun = "/debug/jobs/{name}/run"
	// RouteStatic serves embedded assets.
	RouteStatic = "/static/*"
)

// Query parameters.
const (
	// ParamLayout selects the layout on the dashboard page.
	ParamLayout = "layout"
)

// Log messages shared between handlers.
const (
	LogRenderFailed = "failed to render page"
	LogWidgetFailed = "widget request failed"
)

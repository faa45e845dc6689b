// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const snapshotPage = `<!DOCTYPE html><html><head><script src="/static/js/index.js"></script></head>
<body><section class="wg-container" data-widget-id="wg-clock-r1-c1"></section><script>alert(1)</script></body></html>`

func TestFetchPage(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(snapshotPage))
	}))
	defer srv.Close()

	root, err := fetchPage(context.Background(), srv.Client(), srv.URL, "kitchen")
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, "layout=kitchen", gotQuery)
}

func TestFetchPageStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "layout not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := fetchPage(context.Background(), srv.Client(), srv.URL, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestPageRequestsCarryPageLang(t *testing.T) {
	root, err := html.Parse(strings.NewReader(`<!DOCTYPE html><html><body data-lang="ja">
<section data-widget-id="wg-clock-r1-c1" data-widget-type="clock" data-widget-query="size=middleh"></section>
<section data-widget-id="wg-clock-r2-c1" data-widget-type="clock" data-widget-query="size=middleh&amp;lang=en"></section>
</body></html>`))
	require.NoError(t, err)

	reqs := pageRequests(root)
	require.Len(t, reqs, 2)
	assert.Equal(t, "size=middleh&lang=ja", reqs[0].Query)
	assert.Equal(t, "size=middleh&lang=en", reqs[1].Query)
}

func TestRemoveScripts(t *testing.T) {
	root, err := html.Parse(strings.NewReader(snapshotPage))
	require.NoError(t, err)

	removeScripts(root)

	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, root))
	out := buf.String()
	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, `data-widget-id="wg-clock-r1-c1"`)
}

func TestWriteSnapshot(t *testing.T) {
	root, err := html.Parse(strings.NewReader(`<p>hello</p>`))
	require.NoError(t, err)

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSnapshot(&buf, "-", root))
		assert.Contains(t, buf.String(), "<p>hello</p>")
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.html")
		require.NoError(t, writeSnapshot(&bytes.Buffer{}, path, root))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "<p>hello</p>")
	})
}

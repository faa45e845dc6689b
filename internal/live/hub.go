// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package live pushes widget refresh notices to open dashboards over
// WebSocket.
package live

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kken7231/screensaver/internal/layout"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// MessageRefresh asks the page to re-run the binder for one widget.
const MessageRefresh = "refresh"

// Message is sent to every connected page.
type Message struct {
	Type       string `json:"type"`
	WidgetID   string `json:"widget_id"`
	WidgetType string `json:"widget_type"`
	Query      string `json:"query"`
}

// RefreshMessage builds the refresh notice for w.
func RefreshMessage(w layout.Widget) Message {
	return Message{
		Type:       MessageRefresh,
		WidgetID:   w.ID(),
		WidgetType: string(w.Type),
		Query:      w.Query(),
	}
}

// connWithMutex serialises writes on one connection.
type connWithMutex struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *connWithMutex) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

func (c *connWithMutex) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Hub tracks open connections and broadcasts messages to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]*connWithMutex
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewHub creates a Hub. checkOrigin may be nil to use the same-origin check.
func NewHub(logger *slog.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		connections: make(map[*websocket.Conn]*connWithMutex),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

func (h *Hub) add(conn *websocket.Conn) *connWithMutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := &connWithMutex{conn: conn}
	h.connections[conn] = c
	return c
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.connections[conn]
	delete(h.connections, conn)
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Broadcast sends msg to every connection and returns how many received
// it. Connections that fail are dropped.
func (h *Hub) Broadcast(msg Message) int {
	h.mu.RLock()
	conns := make([]*connWithMutex, 0, len(h.connections))
	for _, c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range conns {
		if err := c.writeJSON(msg); err != nil {
			h.logger.Debug("dropping live connection", "remote", c.conn.RemoteAddr().String(), "error", err)
			h.remove(c.conn)
			continue
		}
		sent++
	}
	return sent
}

// ServeHTTP upgrades the request and keeps the connection open until the
// client goes away. Incoming messages are ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Warn("websocket upgrade failed", "error", err, "category", "live")
		return
	}
	c := h.add(conn)
	h.logger.Debug("live connection opened", "remote", conn.RemoteAddr().String(), "open", h.Count())

	done := make(chan struct{})
	go h.pingLoop(c, done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	close(done)
	h.remove(conn)
	h.logger.Debug("live connection closed", "remote", conn.RemoteAddr().String(), "open", h.Count())
}

func (h *Hub) pingLoop(c *connWithMutex, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				h.remove(c.conn)
				return
			}
		}
	}
}

// Close sends a close frame to every connection and drops them.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := h.connections
	h.connections = make(map[*websocket.Conn]*connWithMutex)
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn, c := range conns {
		_ = c.write(websocket.CloseMessage, msg)
		_ = conn.Close()
	}
}

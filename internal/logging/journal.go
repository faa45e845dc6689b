// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultJournalSize is used when NewJournal is given a non-positive capacity.
const DefaultJournalSize = 200

// Entry is one recorded log line.
type Entry struct {
	ID       string            `json:"id"`
	Time     time.Time         `json:"time"`
	Level    string            `json:"level"`
	Category string            `json:"category"`
	Message  string            `json:"message"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

// Journal is a fixed-size ring of recent entries. It is safe for concurrent use.
type Journal struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewJournal creates a journal holding at most capacity entries.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultJournalSize
	}
	return &Journal{entries: make([]Entry, capacity)}
}

// Add stores e, evicting the oldest entry when full.
func (j *Journal) Add(e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries[j.next] = e
	j.next = (j.next + 1) % len(j.entries)
	if j.next == 0 {
		j.full = true
	}
}

// Entries returns the stored entries, newest first.
func (j *Journal) Entries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	n := j.lenLocked()
	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (j.next - i + len(j.entries)) % len(j.entries)
		out = append(out, j.entries[idx])
	}
	return out
}

// Len returns the number of stored entries.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.lenLocked()
}

// Clear drops all entries.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	clear(j.entries)
	j.next = 0
	j.full = false
}

func (j *Journal) lenLocked() int {
	if j.full {
		return len(j.entries)
	}
	return j.next
}

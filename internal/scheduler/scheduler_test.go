// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAdd(t *testing.T) {
	s := New(testLogger())
	noop := func(context.Context) error { return nil }

	if err := s.Add("refresh", "*/5 * * * *", noop); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("refresh", "* * * * *", noop); !errors.Is(err, ErrJobExists) {
		t.Errorf("Add() duplicate error = %v, want ErrJobExists", err)
	}
	if err := s.Add("bad", "every minute", noop); err == nil {
		t.Error("Add() accepted an invalid spec")
	}
	if err := s.Add("seconds", "*/5 * * * * *", noop); err == nil {
		t.Error("Add() accepted a six-field spec")
	}
}

func TestStartStop(t *testing.T) {
	s := New(testLogger())
	if err := s.Add("noop", "@hourly", func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	s.Start()

	jobs := s.List()
	if len(jobs) != 1 || jobs[0].Name != "noop" {
		t.Fatalf("List() = %+v", jobs)
	}
	if jobs[0].NextRun.IsZero() {
		t.Error("started job has no next run")
	}
	s.Stop()
}

func TestTriggerNow(t *testing.T) {
	s := New(testLogger())
	var runs atomic.Int32
	done := make(chan struct{}, 1)
	err := s.Add("refresh", "@daily", func(context.Context) error {
		runs.Add(1)
		done <- struct{}{}
		return errors.New("upstream down")
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.TriggerNow("refresh"); err != nil {
		t.Fatalf("TriggerNow() error = %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	if err := s.TriggerNow("refresh"); !errors.Is(err, ErrTriggerThrottled) {
		t.Errorf("second TriggerNow() error = %v, want ErrTriggerThrottled", err)
	}
	if err := s.TriggerNow("missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("TriggerNow(missing) error = %v, want ErrJobNotFound", err)
	}

	s.Stop()
	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
	info := s.List()[0]
	if info.LastError != "upstream down" {
		t.Errorf("LastError = %q", info.LastError)
	}
	if info.LastRun.IsZero() {
		t.Error("LastRun not recorded")
	}
}

func TestStopCancelsJobContext(t *testing.T) {
	s := New(testLogger())
	started := make(chan struct{})
	var cancelled atomic.Bool
	err := s.Add("slow", "@daily", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	if err := s.TriggerNow("slow"); err != nil {
		t.Fatal(err)
	}
	<-started
	s.Stop()
	if !cancelled.Load() {
		t.Error("Stop() returned before the job saw cancellation")
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs named background jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"
)

// Errors returned by the scheduler.
var (
	ErrJobExists        = errors.New("job already registered")
	ErrJobNotFound      = errors.New("job not found")
	ErrTriggerThrottled = errors.New("job was triggered too recently")
)

// Job is the work of a scheduled job. The context is cancelled when the
// scheduler stops.
type Job func(ctx context.Context) error

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name      string    `json:"name"`
	Schedule  string    `json:"schedule"`
	LastRun   time.Time `json:"last_run"`
	NextRun   time.Time `json:"next_run"`
	LastError string    `json:"last_error,omitempty"`
	Running   bool      `json:"running"`
}

type registeredJob struct {
	name     string
	schedule string
	entryID  cron.EntryID
	fn       Job
	running  atomic.Bool
	trigger  *rate.Limiter

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// Scheduler wraps a cron instance with named jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.RWMutex
	jobs map[string]*registeredJob
}

// New creates a scheduler using standard five-field cron specs.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*registeredJob),
	}
}

// Add registers fn under name to run on spec. A run is skipped when the
// previous run of the same job has not finished.
func (s *Scheduler) Add(name, spec string, fn Job) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrJobExists, name)
	}

	job := &registeredJob{
		name:     name,
		schedule: spec,
		fn:       fn,
		trigger:  rate.NewLimiter(rate.Every(10*time.Second), 1),
	}
	id, err := s.cron.AddFunc(spec, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("scheduling %s: %w", name, err)
	}
	job.entryID = id
	s.jobs[name] = job

	s.logger.Debug("registered scheduled job", "name", name, "schedule", spec)
	return nil
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	s.cancel()
	<-ctx.Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// TriggerNow runs a job immediately in the background. Manual triggers of
// one job are limited to one every ten seconds.
func (s *Scheduler) TriggerNow(name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if !job.trigger.Allow() {
		return fmt.Errorf("%w: %s", ErrTriggerThrottled, name)
	}

	s.logger.Info("manually triggering job", "name", name)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(job)
	}()
	return nil
}

func (s *Scheduler) run(job *registeredJob) {
	if !job.running.CompareAndSwap(false, true) {
		s.logger.Warn("skipping job run, previous run still active", "name", job.name, "category", "scheduler")
		return
	}
	defer job.running.Store(false)
	if s.ctx.Err() != nil {
		return
	}

	start := time.Now()
	err := job.fn(s.ctx)

	job.mu.Lock()
	job.lastRun = start
	job.lastErr = err
	job.mu.Unlock()

	if err != nil {
		s.logger.Error("scheduled job failed", "name", job.name, "error", err, "duration", time.Since(start), "category", "scheduler")
		return
	}
	s.logger.Debug("scheduled job finished", "name", job.name, "duration", time.Since(start))
}

// List returns all registered jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]JobInfo, 0, len(s.jobs))
	for _, job := range s.jobs {
		info := JobInfo{
			Name:     job.name,
			Schedule: job.schedule,
			NextRun:  s.cron.Entry(job.entryID).Next,
			Running:  job.running.Load(),
		}
		job.mu.Lock()
		info.LastRun = job.lastRun
		if job.lastErr != nil {
			info.LastError = job.lastErr.Error()
		}
		job.mu.Unlock()
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

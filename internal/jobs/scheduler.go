// Package jobs runs background maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	StatusScheduled = "scheduled"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// JobFunc is one unit of background work.
type JobFunc func(ctx context.Context) error

// JobInfo represents information about a scheduled job
type JobInfo struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Schedule   string        `json:"schedule"`
	LastRun    time.Time     `json:"last_run"`
	NextRun    time.Time     `json:"next_run"`
	Status     string        `json:"status"`
	RunCount   int           `json:"run_count"`
	ErrorCount int           `json:"error_count"`
	LastError  string        `json:"last_error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

type job struct {
	info    JobInfo
	entryID cron.EntryID
	fn      JobFunc
}

// Scheduler owns a cron runner and the bookkeeping for its jobs.
type Scheduler struct {
	cron      *cron.Cron
	logger    *logrus.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	jobs      map[string]*job
	isRunning bool
}

func NewScheduler(logger *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*job),
	}
}

// Add registers fn under id with a standard five-field cron expression or an
// @every/@daily descriptor.
func (s *Scheduler) Add(id, name, schedule string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job %s already registered", id)
	}

	entryID, err := s.cron.AddFunc(schedule, func() { s.run(id) })
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", id, err)
	}

	s.jobs[id] = &job{
		info: JobInfo{
			ID:       id,
			Name:     name,
			Schedule: schedule,
			NextRun:  s.cron.Entry(entryID).Next,
			Status:   StatusScheduled,
		},
		entryID: entryID,
		fn:      fn,
	}

	s.logger.WithFields(logrus.Fields{
		"component": "scheduler",
		"job_id":    id,
		"job_name":  name,
		"schedule":  schedule,
	}).Info("Scheduled job added")
	return nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("component", "scheduler").Info("Scheduler started")
}

// Stop halts the cron runner and waits briefly for running jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		s.cancel()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.WithField("component", "scheduler").Info("Scheduler stopped gracefully")
	case <-time.After(5 * time.Second):
		s.logger.WithField("component", "scheduler").Warn("Scheduler stop timed out")
	}
}

// Trigger runs a job immediately on the calling goroutine.
func (s *Scheduler) Trigger(id string) error {
	s.mu.RLock()
	_, exists := s.jobs[id]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %s not found", id)
	}
	return s.run(id)
}

func (s *Scheduler) run(id string) (err error) {
	s.mu.Lock()
	j, exists := s.jobs[id]
	if !exists {
		s.mu.Unlock()
		return nil
	}
	j.info.Status = StatusRunning
	j.info.LastRun = time.Now()
	j.info.RunCount++
	fn, runCount := j.fn, j.info.RunCount
	s.mu.Unlock()

	log := s.logger.WithFields(logrus.Fields{
		"component": "scheduler",
		"job_id":    id,
		"run_count": runCount,
	})
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Job panicked")
			err = fmt.Errorf("job %s panicked: %v", id, r)
		}
		s.finish(id, err, time.Since(start))
	}()

	if err = fn(s.ctx); err != nil {
		log.WithError(err).Warn("Job failed")
		return err
	}
	log.WithField("duration", time.Since(start)).Debug("Job completed")
	return nil
}

func (s *Scheduler) finish(id string, err error, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, exists := s.jobs[id]
	if !exists {
		return
	}
	j.info.Duration = duration
	j.info.NextRun = s.cron.Entry(j.entryID).Next
	if err != nil {
		j.info.Status = StatusFailed
		j.info.ErrorCount++
		j.info.LastError = err.Error()
		return
	}
	j.info.Status = StatusCompleted
	j.info.LastError = ""
}

// Jobs returns a snapshot of every registered job.
func (s *Scheduler) Jobs() map[string]JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]JobInfo, len(s.jobs))
	for id, j := range s.jobs {
		out[id] = j.info
	}
	return out
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

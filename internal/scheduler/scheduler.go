package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/ski-ratings/internal/service"
)

// Runner recomputes every discipline
type Runner interface {
	RunAll(ctx context.Context) ([]*service.Report, error)
}

// Result is the outcome of the last scheduled recomputation
type Result struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Reports    []*service.Report
	Err        error
}

// Scheduler manages scheduled recomputation of rating histories
type Scheduler struct {
	cron            *cron.Cron
	runner          Runner
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	runTimeout      time.Duration
	gracefulTimeout time.Duration
	last            *Result
	onComplete      func(Result)
}

// NewScheduler creates a new scheduler. Overlapping runs are skipped and a
// panicking run is recovered and logged.
func NewScheduler(runner Runner, logger *logrus.Logger, runTimeout time.Duration) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = 30 * time.Minute
	}
	cronLogger := cron.PrintfLogger(logger)
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		runner:          runner,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		runTimeout:      runTimeout,
		gracefulTimeout: 30 * time.Second,
	}
}

// OnComplete registers a callback invoked after every run
func (s *Scheduler) OnComplete(fn func(Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = fn
}

// ScheduleRecompute schedules a full recomputation on a standard cron
// expression or descriptor such as "@daily"
func (s *Scheduler) ScheduleRecompute(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()
		s.RunNow(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled rating recomputation")

	return nil
}

// RunNow performs one recomputation synchronously and records its result
func (s *Scheduler) RunNow(ctx context.Context) Result {
	res := Result{StartedAt: time.Now()}
	s.logger.Info("Starting scheduled rating recomputation")

	res.Reports, res.Err = s.runner.RunAll(ctx)
	res.FinishedAt = time.Now()

	entry := s.logger.WithField("duration", res.FinishedAt.Sub(res.StartedAt).String())
	if res.Err != nil {
		entry.WithError(res.Err).Error("Scheduled rating recomputation failed")
	} else {
		entry.WithField("disciplines", len(res.Reports)).Info("Scheduled rating recomputation completed")
	}

	s.mu.Lock()
	s.last = &res
	fn := s.onComplete
	s.mu.Unlock()

	if fn != nil {
		fn(res)
	}
	return res
}

// LastResult returns the result of the most recent run, if any
func (s *Scheduler) LastResult() (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running job, up to the graceful
// timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	// A job still in flight records its result under mu.
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}

package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yourusername/betpulse/internal/tracing"
)

// JobFunc is one scheduled unit of pipeline work
type JobFunc func(ctx context.Context) error

// Scheduler manages the recurring pipeline jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *log.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          map[string]cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new UTC cron scheduler
func NewScheduler(logger *log.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		logger:          logger,
		jobIDs:          make(map[string]cron.EntryID),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleEvery registers a named job at a fixed interval
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, timeout time.Duration, job JobFunc) error {
	if interval < 5*time.Second {
		interval = 5 * time.Second
	}
	return s.schedule(name, fmt.Sprintf("@every %s", interval), timeout, job)
}

// ScheduleCron registers a named job with a cron expression
func (s *Scheduler) ScheduleCron(name string, cronExpression string, timeout time.Duration, job JobFunc) error {
	return s.schedule(name, cronExpression, timeout, job)
}

func (s *Scheduler) schedule(name, spec string, timeout time.Duration, job JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if _, exists := s.jobIDs[name]; exists {
		return fmt.Errorf("job already scheduled: %s", name)
	}

	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		if err := tracing.TraceJob(ctx, name, job); err != nil {
			s.logger.Printf("Job %s failed after %v: %v", name, time.Since(start), err)
			return
		}
		s.logger.Printf("Job %s completed in %v", name, time.Since(start))
	}

	entryID, err := s.cron.AddFunc(spec, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobIDs[name] = entryID
	s.logger.Printf("Scheduled job %s (%s)", name, spec)

	return nil
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
	s.logger.Printf("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight jobs
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Printf("Scheduler stop timed out after %v", s.gracefulTimeout)
	}

	s.isRunning = false
	s.logger.Printf("Scheduler stopped")

	return nil
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

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// JobNames returns the names of all scheduled jobs
func (s *Scheduler) JobNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobIDs))
	for name := range s.jobIDs {
		names = append(names, name)
	}
	return names
}

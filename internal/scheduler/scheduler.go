// Package scheduler manages the recurring collection job.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/NeilMac555/odds-tracker/internal/service"
)

// Scheduler runs the collector on a fixed interval.
type Scheduler struct {
	cron      *cron.Cron
	collector *service.CollectorService
	movers    *service.MoversService
	logger    *logrus.Logger
	mu        sync.RWMutex
	isRunning bool
	lastRun   time.Time
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler. movers may be nil when no ranking
// cache needs invalidation after each tick.
func NewScheduler(collector *service.CollectorService, movers *service.MoversService, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		collector: collector,
		movers:    movers,
		logger:    logger,
		jobIDs:    make([]cron.EntryID, 0),
	}
}

// ScheduleCollection schedules the collection job at the given interval. The
// per-tick context is bounded by the interval itself so a stuck run cannot
// overlap the next one.
func (s *Scheduler) ScheduleCollection(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	if interval < time.Minute {
		interval = time.Minute
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()

		report, err := s.collector.CollectOnce(ctx)
		if err != nil {
			s.logger.WithField("error", err.Error()).Error("Scheduled collection failed")
			return
		}

		s.mu.Lock()
		s.lastRun = report.StartedAt
		s.mu.Unlock()

		if s.movers != nil {
			s.movers.InvalidateCache()
		}

		s.logger.WithFields(logrus.Fields{
			"run_id":           report.RunID,
			"snapshots_stored": report.SnapshotsStored,
			"status":           report.Status(),
		}).Info("Scheduled collection completed")
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("interval", interval.String()).Info("Scheduled collection job")

	return nil
}

// Start starts the scheduler.
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

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastRunTime returns the start time of the most recent successful
// collection, or the zero time before the first one.
func (s *Scheduler) LastRunTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// GetNextRun returns the time of the next scheduled job run.
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
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

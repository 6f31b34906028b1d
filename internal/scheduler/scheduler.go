package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// refreshTimeout bounds one full refresh cycle across all sites.
const refreshTimeout = 60 * time.Second

// Refresher is the scheduled unit of work.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// Scheduler refreshes the site forecasts on a fixed interval. Overlapping
// runs are skipped rather than queued, and a panicking job never takes the
// schedule down.
type Scheduler struct {
	refresher Refresher
	logger    *zap.Logger
	interval  time.Duration
	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	running   bool
	lastRun   time.Time
}

func NewScheduler(refresher Refresher, interval time.Duration, logger *zap.Logger) *Scheduler {
	s := &Scheduler{
		refresher: refresher,
		logger:    logger,
		interval:  interval,
	}
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLogger{logger}),
		cron.Recover(cronLogger{logger}),
	))
	return s
}

// Start schedules the periodic refresh and fires one immediately so callers
// never wait a full interval for the first data.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	id, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.runRefresh)
	if err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	s.entryID = id
	s.cron.Start()

	s.logger.Info("Scheduler started", zap.Duration("interval", s.interval))

	go s.runRefresh()
	return nil
}

func (s *Scheduler) runRefresh() {
	s.mu.Lock()
	s.lastRun = time.Now()
	s.mu.Unlock()

	start := time.Now()
	s.logger.Info("Starting scheduled site refresh")

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := s.refresher.RefreshAll(ctx); err != nil {
		s.logger.Error("Scheduled site refresh failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	s.logger.Info("Scheduled site refresh completed",
		zap.Duration("duration", time.Since(start)))
}

// Stop halts scheduling and waits for an in-flight refresh to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// ForceRun triggers a refresh outside the schedule.
func (s *Scheduler) ForceRun() {
	s.logger.Info("Manually triggering site refresh")
	go s.runRefresh()
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":  s.running,
		"interval": s.interval.String(),
		"last_run": s.lastRun,
	}
	if s.running {
		status["next_run"] = s.cron.Entry(s.entryID).Next
	}
	return status
}

// cronLogger adapts zap to the cron logging interface.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

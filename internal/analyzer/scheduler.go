package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the retention sweep on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	analyzer *Analyzer
	maxAge   time.Duration
	log      *slog.Logger
}

// NewScheduler creates a Scheduler that deletes analyses older than maxAge
// on schedule, a cron spec such as "@every 1h" or "0 3 * * *".
func NewScheduler(
	a *Analyzer,
	schedule string,
	maxAge time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:     c,
		analyzer: a,
		maxAge:   maxAge,
		log:      log,
	}

	if _, err := c.AddFunc(schedule, s.runRetention); err != nil {
		return nil, fmt.Errorf("adding retention schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "max_age", s.maxAge)
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runRetention() {
	ctx := context.Background()
	n, err := s.analyzer.Sweep(ctx, s.maxAge)
	if err != nil {
		s.log.Error("retention sweep failed", "error", err)
		return
	}
	s.log.Info("retention sweep complete", "deleted", n)
}

package scrape

import (
	"context"
	"log/slog"
	"time"
)

// SchedulerConfig configures the periodic scrape trigger.
type SchedulerConfig struct {
	// Interval between full scrape runs. Default: 6 hours.
	Interval time.Duration
	// RunOnStart triggers a full run immediately when Run is called.
	RunOnStart bool
}

func (c *SchedulerConfig) defaults() {
	if c.Interval <= 0 {
		c.Interval = 6 * time.Hour
	}
}

// Scheduler invokes RunFullScrape on a fixed interval.
type Scheduler struct {
	orch   *Orchestrator
	config SchedulerConfig
	logger *slog.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(orch *Orchestrator, cfg SchedulerConfig, logger *slog.Logger) *Scheduler {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{orch: orch, config: cfg, logger: logger}
}

// Run triggers full scrapes on the ticker. Blocks until ctx is cancelled.
// A failed run is logged; the next tick tries again.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scrape: scheduler started", "interval", s.config.Interval)

	if s.config.RunOnStart {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if _, err := s.orch.RunFullScrape(ctx); err != nil {
		s.logger.Error("scrape: scheduled run failed", "error", err)
	}
}

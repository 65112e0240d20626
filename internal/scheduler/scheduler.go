package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const refreshTimeout = 2 * time.Minute

// Refresher runs one change-detecting reconciliation.
type Refresher interface {
	Refresh(ctx context.Context) bool
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string
	logger    *zap.Logger
}

// NewScheduler creates a scheduler running refresher on the standard
// five-field cron spec. An empty spec disables the job.
func NewScheduler(spec string, refresher Refresher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		spec:      spec,
		logger:    logger,
	}
}

// Start registers the refresh job and starts the scheduler.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.logger.Info("periodic refresh disabled")
		return nil
	}

	s.logger.Info("starting scheduler", zap.String("spec", s.spec))
	if _, err := s.cron.AddFunc(s.spec, s.refresh); err != nil {
		return fmt.Errorf("schedule equipment refresh %q: %w", s.spec, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	changed := s.refresher.Refresh(ctx)
	s.logger.Info("equipment refresh finished",
		zap.Bool("changed", changed),
		zap.Duration("duration", time.Since(start)))
}

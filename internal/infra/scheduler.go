package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"stockdesk/internal/domain"
	"stockdesk/pkg/logger"
)

// purgeTimeout bounds a single purge run
const purgeTimeout = 30 * time.Second

// Scheduler periodically removes predictions whose TTL has run out
type Scheduler struct {
	cron     *cron.Cron
	repo     domain.PredictionRepository
	schedule string
	log      *logger.Logger
}

// NewScheduler creates a new scheduler. schedule accepts standard five-field
// cron specs as well as descriptors such as "@every 10m".
func NewScheduler(repo domain.PredictionRepository, schedule string, log *logger.Logger) *Scheduler {
	log = log.Named("scheduler")
	cronLog := cron.PrintfLogger(zap.NewStdLog(log.Logger))

	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLog),
			cron.SkipIfStillRunning(cronLog),
		)),
		repo:     repo,
		schedule: schedule,
		log:      log,
	}
}

// Start registers the purge job and starts the scheduler
func (s *Scheduler) Start() error {
	s.log.Info("Starting scheduler...", logger.Field("purge_schedule", s.schedule))

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunNow(context.Background()); err != nil {
			s.log.Error("Scheduled prediction purge failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.log.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running purge to finish
func (s *Scheduler) Stop() {
	s.log.Info("Stopping scheduler...")
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

// RunNow purges expired predictions immediately and returns how many were removed
func (s *Scheduler) RunNow(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, purgeTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired predictions: %w", err)
	}

	if n > 0 {
		s.log.Info("Purged expired predictions",
			logger.Field("deleted", n),
			logger.Field("duration", time.Since(start)),
		)
	}
	return n, nil
}

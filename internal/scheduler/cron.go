package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Roller starts a new day of play
type Roller interface {
	Rollover(ctx context.Context) error
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron    *cron.Cron
	game    Roller
	timeout time.Duration
	logger  *logrus.Logger
}

// NewScheduler creates a scheduler whose schedules are evaluated in loc
func NewScheduler(game Roller, loc *time.Location, timeout time.Duration, logger *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		game:    game,
		timeout: timeout,
		logger:  logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Midnight: archive yesterday and select the new daily target
	_, err := s.cron.AddFunc("0 0 * * *", func() {
		s.runRollover("midnight")
	})
	if err != nil {
		return fmt.Errorf("failed to add rollover job: %w", err)
	}

	// Every 15 minutes: retry when the provider was down at midnight
	_, err = s.cron.AddFunc("*/15 * * * *", func() {
		s.runRollover("retry")
	})
	if err != nil {
		return fmt.Errorf("failed to add rollover retry job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// runRollover executes the rollover job
func (s *Scheduler) runRollover(trigger string) {
	log := s.logger.WithField("trigger", trigger)
	log.Debug("Running scheduled rollover")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.game.Rollover(ctx); err != nil {
		log.WithError(err).Error("Rollover job failed")
		return
	}
	log.Debug("Rollover job completed")
}

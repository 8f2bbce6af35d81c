// Package scheduler runs periodic jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of scheduled work.
type Job interface {
	// Name identifies the job in logs and events
	Name() string
	// Run executes the job. The context is cancelled on scheduler shutdown.
	Run(ctx context.Context) error
}

// Scheduler wraps a cron runner with job-level logging and panic recovery.
// Schedules use the 6-field format with seconds (e.g. "0 0 6 * * *").
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger
}

// New creates a scheduler.
func New(log zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
		))),
		ctx:    ctx,
		cancel: cancel,
		log:    log.With().Str("component", "scheduler").Logger(),
	}
}

// AddJob schedules a job. Returns an error for an invalid cron spec.
func (s *Scheduler) AddJob(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
	}

	s.log.Info().Str("job", job.Name()).Str("schedule", spec).Msg("Job scheduled")
	return nil
}

// Start begins executing scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop cancels running jobs and waits for in-flight executions to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// runJob executes one job with logging and panic recovery.
func (s *Scheduler) runJob(job Job) {
	start := time.Now()
	log := s.log.With().Str("job", job.Name()).Logger()
	log.Info().Msg("Job starting")

	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Msg("Job panicked")
		}
	}()

	if err := job.Run(s.ctx); err != nil {
		log.Error().Err(err).Dur("duration_ms", time.Since(start)).Msg("Job failed")
		return
	}

	log.Info().Dur("duration_ms", time.Since(start)).Msg("Job completed")
}

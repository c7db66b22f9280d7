// Package scheduler drives the two pipeline cadences with cron triggers.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is one schedulable cycle body.
type Job func(ctx context.Context) error

// Scheduler runs registered jobs on cron schedules. Per job, overlapping
// firings are queued, not run concurrently: a slow cycle still in flight
// delays its next firing instead of racing the store. Distinct jobs run
// independently of each other.
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

// New creates a scheduler in the given location.
func New(loc *time.Location, log *logrus.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logrus.New()
	}

	cronLog := cron.PrintfLogger(log)
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(
			cron.Recover(cronLog),
			cron.DelayIfStillRunning(cronLog),
		),
	)

	return &Scheduler{cron: c, log: log}
}

// Add registers a job under a standard cron spec. Each firing gets its own
// run ID and bounded timeout; a failed run is logged and the schedule keeps
// going.
func (s *Scheduler) Add(spec, name string, timeout time.Duration, job Job) error {
	if job == nil {
		return fmt.Errorf("job %s is nil", name)
	}

	_, err := s.cron.AddFunc(spec, func() {
		runID := uuid.NewString()[:8]
		log := s.log.WithFields(logrus.Fields{"job": name, "run_id": runID})

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			log.WithFields(logrus.Fields{
				"error":    err.Error(),
				"duration": time.Since(start).String(),
			}).Warn("cycle failed")
			return
		}
		log.WithField("duration", time.Since(start).String()).Info("cycle completed")
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}

	return nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

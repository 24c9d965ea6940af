package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/officesnack/snackcycle/pkg/logger"
	"github.com/officesnack/snackcycle/pkg/metrics"
	"go.uber.org/multierr"
)

// ServiceParams wires a cron worker. Registry and Metrics may be nil;
// Interval defaults to a day.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
}

// Service runs the registered maintenance jobs on a fixed cadence. The lock
// keeps a fleet of workers from running the same cycle twice.
type Service struct {
	ServiceParams
}

func NewService(p ServiceParams) (*Service, error) {
	switch {
	case p.Logger == nil:
		return nil, errors.New("cron service: logger required")
	case p.Lock == nil:
		return nil, errors.New("cron service: lock required")
	}
	if p.Registry == nil {
		p.Registry = &Registry{}
	}
	if p.Interval <= 0 {
		p.Interval = 24 * time.Hour
	}
	return &Service{ServiceParams: p}, nil
}

// Run performs one cycle straight away and another every Interval. It
// returns ctx.Err() once ctx is done.
func (s *Service) Run(ctx context.Context) error {
	s.Logger.Info(s.Logger.WithField(ctx, "interval", s.Interval.String()), "cron worker started")
	for {
		if err := s.RunOnce(ctx); err != nil {
			s.Logger.Error(ctx, "cron cycle finished with errors", err)
		}
		select {
		case <-ctx.Done():
			s.Logger.Info(ctx, "cron worker stopping")
			return ctx.Err()
		case <-time.After(s.Interval):
		}
	}
}

// RunOnce runs every job under the lock. A failing job does not stop the
// ones after it; all failures come back combined. Jobs not yet started when
// ctx is cancelled are skipped.
func (s *Service) RunOnce(ctx context.Context) (err error) {
	acquired, err := s.Lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire cron lock: %w", err)
	}
	if !acquired {
		s.Metrics.CycleSkipped()
		s.Logger.Info(ctx, "cron lock held elsewhere; skipping cycle")
		return nil
	}
	defer func() {
		// Release even when the cycle was cut short by shutdown.
		if relErr := s.Lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.Logger.Error(ctx, "release cron lock", relErr)
		}
	}()

	for _, job := range s.Registry.Jobs() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return multierr.Append(err, ctxErr)
		}
		err = multierr.Append(err, s.runJob(ctx, job))
	}
	return err
}

func (s *Service) runJob(ctx context.Context, job Job) error {
	name := job.Name()
	jobCtx := s.Logger.WithFields(ctx, map[string]any{"job": name, "event": "cron.job"})

	started := time.Now()
	runErr := job.Run(jobCtx)
	finished := time.Now()
	s.Metrics.ObserveRun(name, finished.Sub(started), finished, runErr)

	jobCtx = s.Logger.WithField(jobCtx, "duration_ms", finished.Sub(started).Milliseconds())
	if runErr != nil {
		s.Logger.Error(jobCtx, "cron job failed", runErr)
		return fmt.Errorf("%s: %w", name, runErr)
	}
	s.Logger.Info(jobCtx, "cron job completed")
	return nil
}

package cron

import (
	"context"
	"errors"
	"time"

	"github.com/officesnack/snackcycle/internal/cycle"
	"github.com/officesnack/snackcycle/internal/snacks"
	"github.com/officesnack/snackcycle/pkg/logger"
)

const purgeJobName = "retired-snack-purge"

type snackPurger interface {
	PurgeRetiredBefore(ctx context.Context, cutoff time.Time) (*snacks.PurgeResult, error)
}

type PurgeJobParams struct {
	Logger   *logger.Logger
	Snacks   snackPurger
	Calendar cycle.Calendar
	Now      func() time.Time
}

// purgeJob hard-deletes snacks retired before the current month began.
type purgeJob struct {
	logg     *logger.Logger
	snacks   snackPurger
	calendar cycle.Calendar
	now      func() time.Time
}

func NewPurgeJob(params PurgeJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Snacks == nil {
		return nil, errors.New("snack service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &purgeJob{
		logg:     params.Logger,
		snacks:   params.Snacks,
		calendar: params.Calendar,
		now:      now,
	}, nil
}

func (j *purgeJob) Name() string { return purgeJobName }

func (j *purgeJob) Run(ctx context.Context) error {
	cutoff := j.calendar.MonthStart(j.now())
	result, err := j.snacks.PurgeRetiredBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	ctx = j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff.UTC().Format(time.RFC3339),
		"snacks_deleted": result.SnacksDeleted,
		"votes_deleted":  result.VotesDeleted,
	})
	j.logg.Info(ctx, "retired snacks purged")
	return nil
}

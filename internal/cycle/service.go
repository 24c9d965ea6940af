package cycle

import (
	"context"
	"fmt"
	"time"

	"github.com/officesnack/snackcycle/pkg/auth"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ResetResult reports how many rows the weekly reset transitioned.
type ResetResult struct {
	WeekStart            time.Time `json:"weekStart"`
	CompletedOrdersCount int64     `json:"completedOrdersCount"`
	DeletedVotesCount    int64     `json:"deletedVotesCount"`
	DeletedSnacksCount   int64     `json:"deletedSnacksCount"`
}

// Service closes out the current week.
type Service interface {
	WeeklyReset(ctx context.Context, admin *auth.AdminCapability) (*ResetResult, error)
}

// ServiceParams wires the reset dependencies.
type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Calendar Calendar
	Logger   *logger.Logger
}

type service struct {
	repo     Repository
	tx       txRunner
	calendar Calendar
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the weekly reset.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cycle repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		calendar: params.Calendar,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// WeeklyReset completes this week's pending orders, drops this week's votes and
// retires this week's still-active proposals, all in one transaction.
func (s *service) WeeklyReset(ctx context.Context, admin *auth.AdminCapability) (*ResetResult, error) {
	if err := auth.RequireAdmin(admin); err != nil {
		return nil, err
	}

	now := s.now()
	since := s.calendar.WeekStart(now)
	result := &ResetResult{WeekStart: since}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		completed, err := repo.CompletePendingOrdersSince(ctx, since)
		if err != nil {
			return fmt.Errorf("complete pending orders: %w", err)
		}
		deletedVotes, err := repo.DeleteVotesSince(ctx, since)
		if err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		retired, err := repo.RetireActiveSnacksSince(ctx, since, now)
		if err != nil {
			return fmt.Errorf("retire snacks: %w", err)
		}

		result.CompletedOrdersCount = completed
		result.DeletedVotesCount = deletedVotes
		result.DeletedSnacksCount = retired
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "weekly reset failed")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"week_start":       since.Format(time.RFC3339),
		"completed_orders": result.CompletedOrdersCount,
		"deleted_votes":    result.DeletedVotesCount,
		"retired_snacks":   result.DeletedSnacksCount,
	})
	s.logg.Info(logCtx, "weekly reset applied")
	return result, nil
}

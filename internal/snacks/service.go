package snacks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/pkg/auth"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"github.com/officesnack/snackcycle/pkg/enums"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages snack proposals.
type Service interface {
	Propose(ctx context.Context, input ProposeInput) (*models.Snack, error)
	ListActive(ctx context.Context) ([]SnackWithVotes, error)
	ListByProposer(ctx context.Context, proposer string) ([]SnackWithVotes, error)
	Retire(ctx context.Context, admin *auth.AdminCapability, id uuid.UUID) error
	PurgeRetiredBefore(ctx context.Context, cutoff time.Time) (*PurgeResult, error)
}

type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Logger *logger.Logger
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "snack repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo: params.Repo,
		tx:   params.Tx,
		logg: params.Logger,
		now:  time.Now,
	}, nil
}

func (s *service) Propose(ctx context.Context, input ProposeInput) (*models.Snack, error) {
	name := strings.TrimSpace(input.Name)
	url := strings.TrimSpace(input.URL)
	if name == "" || url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and url are required")
	}

	snack := &models.Snack{
		ID:         uuid.New(),
		Name:       name,
		URL:        url,
		ImageURL:   optionalString(input.ImageURL),
		Category:   optionalString(input.Category),
		Price:      input.Price,
		ProposedBy: optionalString(input.ProposedBy),
		Lifecycle:  enums.SnackLifecycleActive,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, snack); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create snack")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"snack_id": snack.ID.String(), "snack_name": snack.Name})
	s.logg.Info(logCtx, "snack proposed")
	return snack, nil
}

func (s *service) ListActive(ctx context.Context) ([]SnackWithVotes, error) {
	rows, err := s.repo.ListActiveWithVotes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list snacks")
	}
	if rows == nil {
		rows = []SnackWithVotes{}
	}
	return rows, nil
}

func (s *service) ListByProposer(ctx context.Context, proposer string) ([]SnackWithVotes, error) {
	proposer = strings.TrimSpace(proposer)
	if proposer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proposer is required")
	}
	rows, err := s.repo.ListByProposerWithVotes(ctx, proposer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list proposer snacks")
	}
	if rows == nil {
		rows = []SnackWithVotes{}
	}
	return rows, nil
}

// Retire soft deletes an active snack. Retiring an already retired snack is a no-op.
func (s *service) Retire(ctx context.Context, admin *auth.AdminCapability, id uuid.UUID) error {
	if err := auth.RequireAdmin(admin); err != nil {
		return err
	}

	affected, err := s.repo.Retire(ctx, id, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire snack")
	}
	if affected == 0 {
		if _, err := s.repo.Find(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "snack not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load snack")
		}
		return nil
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"snack_id": id.String(), "admin_session": admin.SessionID()})
	s.logg.Info(logCtx, "snack retired")
	return nil
}

// PurgeRetiredBefore hard deletes snacks retired before cutoff that no order item references.
func (s *service) PurgeRetiredBefore(ctx context.Context, cutoff time.Time) (*PurgeResult, error) {
	result := &PurgeResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		ids, err := repo.PurgeableIDs(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("select purgeable snacks: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}
		votes, err := repo.DeleteVotesForSnacks(ctx, ids)
		if err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		snacks, err := repo.DeleteSnacks(ctx, ids)
		if err != nil {
			return fmt.Errorf("delete snacks: %w", err)
		}
		result.VotesDeleted = votes
		result.SnacksDeleted = snacks
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "purge retired snacks failed")
	}
	return result, nil
}

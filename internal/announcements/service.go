package announcements

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/pkg/auth"
	"github.com/officesnack/snackcycle/pkg/db/models"
	pkgerrors "github.com/officesnack/snackcycle/pkg/errors"
	"github.com/officesnack/snackcycle/pkg/logger"
	"gorm.io/gorm"
)

const createdByAdmin = "admin"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service keeps at most one announcement active.
type Service interface {
	Publish(ctx context.Context, admin *auth.AdminCapability, message string) (*models.Announcement, error)
	Clear(ctx context.Context, admin *auth.AdminCapability) (int64, error)
	GetActive(ctx context.Context) (*models.Announcement, error)
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
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "announcement repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: params.Repo, tx: params.Tx, logg: params.Logger, now: time.Now}, nil
}

// Publish deactivates the current announcement and inserts the new one atomically.
func (s *service) Publish(ctx context.Context, admin *auth.AdminCapability, message string) (*models.Announcement, error) {
	if err := auth.RequireAdmin(admin); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	announcement := &models.Announcement{
		ID:        uuid.New(),
		Message:   message,
		IsActive:  true,
		CreatedAt: s.now().UTC(),
		CreatedBy: createdByAdmin,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.DeactivateAll(ctx); err != nil {
			return fmt.Errorf("deactivate announcements: %w", err)
		}
		if err := repo.Create(ctx, announcement); err != nil {
			return fmt.Errorf("create announcement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "publish announcement failed")
	}

	s.logg.Info(s.logg.WithField(ctx, "announcement_id", announcement.ID.String()), "announcement published")
	return announcement, nil
}

func (s *service) Clear(ctx context.Context, admin *auth.AdminCapability) (int64, error) {
	if err := auth.RequireAdmin(admin); err != nil {
		return 0, err
	}
	cleared, err := s.repo.DeactivateAll(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear announcements")
	}
	return cleared, nil
}

func (s *service) GetActive(ctx context.Context) (*models.Announcement, error) {
	active, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load announcement")
	}
	return active, nil
}

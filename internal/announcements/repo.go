package announcements

import (
	"context"

	"github.com/officesnack/snackcycle/internal/repo"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	DeactivateAll(ctx context.Context) (int64, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	FindActive(ctx context.Context) (*models.Announcement, error)
}

type repositoryImpl struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	return &repositoryImpl{Base: r.Bind(tx)}
}

func (r *repositoryImpl) DeactivateAll(ctx context.Context) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Announcement{}).
		Where("is_active = ?", true).
		UpdateColumn("is_active", false)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) Create(ctx context.Context, announcement *models.Announcement) error {
	return r.DB(ctx).Create(announcement).Error
}

// FindActive returns the newest active row, or nil when nothing is published.
func (r *repositoryImpl) FindActive(ctx context.Context) (*models.Announcement, error) {
	var rows []models.Announcement
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

package trending

import (
	"context"
	"time"

	"github.com/officesnack/snackcycle/internal/repo"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FetchedSince(ctx context.Context, since time.Time, limit int) ([]models.TrendingSnack, error)
	DeleteAll(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, rows []models.TrendingSnack) error
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

func (r *repositoryImpl) FetchedSince(ctx context.Context, since time.Time, limit int) ([]models.TrendingSnack, error) {
	var rows []models.TrendingSnack
	err := r.DB(ctx).
		Where("fetched_at >= ?", since.UTC()).
		Order("trending_snacks.rank ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	result := r.DB(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.TrendingSnack{})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) CreateBatch(ctx context.Context, rows []models.TrendingSnack) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&rows).Error
}

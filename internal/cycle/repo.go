package cycle

import (
	"context"
	"time"

	"github.com/officesnack/snackcycle/internal/repo"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"github.com/officesnack/snackcycle/pkg/enums"
	"gorm.io/gorm"
)

// Repository holds the statements the weekly reset runs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CompletePendingOrdersSince(ctx context.Context, since time.Time) (int64, error)
	DeleteVotesSince(ctx context.Context, since time.Time) (int64, error)
	RetireActiveSnacksSince(ctx context.Context, since, now time.Time) (int64, error)
}

type repositoryImpl struct {
	repo.Base
}

// NewRepository returns a reset repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{Base: repo.NewBase(db)}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	return &repositoryImpl{Base: r.Bind(tx)}
}

func (r *repositoryImpl) CompletePendingOrdersSince(ctx context.Context, since time.Time) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Order{}).
		Where("order_date >= ? AND status = ?", since.UTC(), enums.OrderStatusPending).
		UpdateColumn("status", enums.OrderStatusCompleted)
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) DeleteVotesSince(ctx context.Context, since time.Time) (int64, error) {
	result := r.DB(ctx).
		Where("created_at >= ?", since.UTC()).
		Delete(&models.Vote{})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) RetireActiveSnacksSince(ctx context.Context, since, now time.Time) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Snack{}).
		Where("created_at >= ? AND lifecycle = ?", since.UTC(), enums.SnackLifecycleActive).
		UpdateColumns(models.RetireColumns(now))
	return result.RowsAffected, result.Error
}

package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/internal/repo"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"github.com/officesnack/snackcycle/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: r.Bind(tx)}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Omit("Items").Create(order).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB(ctx).Omit("Snack").Create(&items).Error
}

// RetireSnacks stamps every listed snack, including ones that were already retired.
func (r *repository) RetireSnacks(ctx context.Context, snackIDs []uuid.UUID, now time.Time) (int64, error) {
	if len(snackIDs) == 0 {
		return 0, nil
	}
	result := r.DB(ctx).
		Model(&models.Snack{}).
		Where("id IN ?", snackIDs).
		UpdateColumns(models.RetireColumns(now))
	return result.RowsAffected, result.Error
}

func (r *repository) withItems(ctx context.Context) *gorm.DB {
	return r.DB(ctx).Preload("Items.Snack")
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.withItems(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.withItems(ctx).Order("order_date DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) ListPendingSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	var rows []models.Order
	err := r.withItems(ctx).
		Where("order_date >= ? AND status = ?", since.UTC(), enums.OrderStatusPending).
		Order("order_date DESC").
		Find(&rows).Error
	return rows, err
}

package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/officesnack/snackcycle/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for purchase batches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	RetireSnacks(ctx context.Context, snackIDs []uuid.UUID, now time.Time) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListPendingSince(ctx context.Context, since time.Time) ([]models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/officesnack/snackcycle/pkg/enums"
)

// Snack is a proposed item. Retired rows stay in the table so order history keeps resolving.
type Snack struct {
	ID         uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string               `gorm:"not null" json:"name"`
	URL        string               `gorm:"column:url;not null" json:"url"`
	ImageURL   *string              `gorm:"column:image_url" json:"imageUrl"`
	Category   *string              `json:"category"`
	Price      decimal.NullDecimal  `gorm:"type:numeric(12,2)" json:"price"`
	ProposedBy *string              `json:"proposedBy"`
	Lifecycle  enums.SnackLifecycle `gorm:"type:text;not null;default:active;index" json:"lifecycle"`
	CreatedAt  time.Time            `gorm:"not null" json:"createdAt"`
	DeletedAt  *time.Time           `json:"deletedAt"`
}

// Retire flips the lifecycle and stamps deleted_at together.
func (s *Snack) Retire(now time.Time) {
	at := now.UTC()
	s.Lifecycle = enums.SnackLifecycleRetired
	s.DeletedAt = &at
}

func (s Snack) IsRetired() bool {
	return s.Lifecycle == enums.SnackLifecycleRetired
}

// RetireColumns is the column set used by bulk retire statements.
func RetireColumns(now time.Time) map[string]any {
	return map[string]any{
		"lifecycle":  enums.SnackLifecycleRetired,
		"deleted_at": now.UTC(),
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/officesnack/snackcycle/pkg/enums"
)

// Order is one purchase batch. It only leaves PENDING through the weekly reset.
type Order struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	OrderDate time.Time           `gorm:"not null;index" json:"orderDate"`
	Status    enums.OrderStatus   `gorm:"type:text;not null;default:PENDING" json:"status"`
	Notes     *string             `json:"notes"`
	TotalCost decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"totalCost"`
	Items     []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem keeps its snack reference even after the snack is retired.
type OrderItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index" json:"orderId"`
	SnackID  uuid.UUID `gorm:"type:uuid;not null;index" json:"snackId"`
	Quantity int       `gorm:"not null" json:"quantity"`
	Snack    *Snack    `gorm:"foreignKey:SnackID" json:"snack,omitempty"`
}

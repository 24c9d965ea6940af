package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemInput is one requested line item.
type ItemInput struct {
	SnackID  uuid.UUID
	Quantity int
}

// CreateInput describes a new order.
type CreateInput struct {
	Items     []ItemInput
	Notes     *string
	TotalCost decimal.NullDecimal
}

// OrderedSnack aggregates this week's pending quantity for one snack.
type OrderedSnack struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	Orders     int       `json:"orders"`
	ImageURL   *string   `json:"imageUrl"`
	URL        string    `json:"url"`
	ProposedBy *string   `json:"proposedBy"`
}

// OrderDetail is the per-order row of the weekly total.
type OrderDetail struct {
	ID            uuid.UUID           `json:"id"`
	OrderDate     time.Time           `json:"orderDate"`
	TotalCost     decimal.NullDecimal `json:"totalCost"`
	Notes         *string             `json:"notes"`
	ItemCount     int                 `json:"itemCount"`
	TotalQuantity int                 `json:"totalQuantity"`
}

// WeeklyTotal summarizes the current week's pending orders.
type WeeklyTotal struct {
	WeekStart     time.Time       `json:"weekStart"`
	OrderCount    int             `json:"orderCount"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalTypes    int             `json:"totalTypes"`
	OrderedSnacks []OrderedSnack  `json:"orderedSnacks"`
	OrderDetails  []OrderDetail   `json:"orderDetails"`
}

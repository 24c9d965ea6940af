package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one ballot for a snack. Duplicate prevention lives outside the table.
type Vote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SnackID   uuid.UUID `gorm:"type:uuid;not null;index" json:"snackId"`
	VoterName *string   `json:"voterName"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	Snack     *Snack    `gorm:"foreignKey:SnackID" json:"snack,omitempty"`
}

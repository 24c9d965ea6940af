package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is the banner message; at most one row is active.
type Announcement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Message   string    `gorm:"not null" json:"message"`
	IsActive  bool      `gorm:"not null;index" json:"isActive"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	CreatedBy string    `gorm:"not null" json:"createdBy"`
}

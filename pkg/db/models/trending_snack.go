package models

import (
	"time"

	"github.com/google/uuid"
)

// TrendingSnack caches the last product search refresh. The table is replaced wholesale.
type TrendingSnack struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	URL       string    `gorm:"column:url;not null" json:"url"`
	ImageURL  *string   `gorm:"column:image_url" json:"imageUrl"`
	Source    string    `gorm:"not null" json:"source"`
	Rank      int       `gorm:"not null" json:"rank"`
	FetchedAt time.Time `gorm:"not null;index" json:"fetchedAt"`
}

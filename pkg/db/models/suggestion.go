package models

import (
	"time"

	"github.com/google/uuid"
)

type Suggestion struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Content    string    `gorm:"not null" json:"content"`
	AuthorName string    `gorm:"not null" json:"authorName"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null" json:"updatedAt"`
	Comments   []Comment `gorm:"foreignKey:SuggestionID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// Comment belongs to a suggestion and optionally replies to another comment.
type Comment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SuggestionID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"suggestionId"`
	ParentCommentID *uuid.UUID `gorm:"type:uuid;index" json:"parentCommentId"`
	Content         string     `gorm:"not null" json:"content"`
	AuthorName      string     `gorm:"not null" json:"authorName"`
	CreatedAt       time.Time  `gorm:"not null" json:"createdAt"`
	Replies         []Comment  `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is a generated recipe the user chose to keep.
type Recipe struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsFavorite bool      `gorm:"not null;default:false" json:"is_favorite"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

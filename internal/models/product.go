package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is one pantry item. Only the name carries meaning; the id is
// assigned by the store on create.
type Product struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProductNames returns the names in list order.
func ProductNames(products []Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

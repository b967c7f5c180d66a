package database

import (
	"fmt"

	"github.com/pageza/pantrychef/backend/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.DietaryProfile{},
		&models.Recipe{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

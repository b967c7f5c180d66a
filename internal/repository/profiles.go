package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/models"
	"gorm.io/gorm"
)

// DietaryProfileRepository stores one profile document per user.
type DietaryProfileRepository struct {
	db *gorm.DB
}

func NewDietaryProfileRepository(db *gorm.DB) *DietaryProfileRepository {
	return &DietaryProfileRepository{db: db}
}

func (r *DietaryProfileRepository) Get(ctx context.Context, user uuid.UUID) (models.DietaryProfile, error) {
	var p models.DietaryProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", user).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DietaryProfile{}, ErrNotFound
	}
	return p, err
}

// Upsert writes the flattened preference list and returns the new revision.
// Unless base is AnyRevision, an existing document whose revision differs
// from base is left untouched and ErrRevisionConflict is returned.
func (r *DietaryProfileRepository) Upsert(ctx context.Context, user uuid.UUID, preferences []string, base int64) (int64, error) {
	var rev int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.DietaryProfile
		err := tx.Where("user_id = ?", user).Take(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row := models.DietaryProfile{
				UserID:        user,
				Preferences:   models.PreferenceList(preferences),
				SchemaVersion: models.DietaryProfileSchemaVersion,
				Revision:      1,
			}
			if err := tx.Create(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrRevisionConflict
				}
				return err
			}
			rev = row.Revision
			return nil
		}
		if err != nil {
			return err
		}

		if base != AnyRevision && current.Revision != base {
			return ErrRevisionConflict
		}

		res := tx.Model(&models.DietaryProfile{}).
			Where("user_id = ? AND revision = ?", user, current.Revision).
			Updates(map[string]interface{}{
				"preferences":    models.PreferenceList(preferences),
				"schema_version": models.DietaryProfileSchemaVersion,
				"revision":       current.Revision + 1,
				"updated_at":     time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRevisionConflict
		}
		rev = current.Revision + 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rev, nil
}

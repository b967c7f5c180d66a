package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/models"
	"gorm.io/gorm"
)

// ProductRepository stores pantry products.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListByOwner returns the owner's products in insertion order.
func (r *ProductRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", owner).
		Order("created_at asc").
		Find(&products).Error
	return products, err
}

// Create stores a product and returns it with its assigned id.
func (r *ProductRepository) Create(ctx context.Context, owner uuid.UUID, name string) (models.Product, error) {
	p := models.Product{Name: name, UserID: owner}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/models"
	"gorm.io/gorm"
)

// RecipeRepository stores saved recipes.
type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// ListByOwner returns the newest recipes first.
func (r *RecipeRepository) ListByOwner(ctx context.Context, owner uuid.UUID, favoritesOnly bool) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	query := r.db.WithContext(ctx).Where("user_id = ?", owner)
	if favoritesOnly {
		query = query.Where("is_favorite = ?", true)
	}
	err := query.Order("created_at desc").Find(&recipes).Error
	return recipes, err
}

func (r *RecipeRepository) Get(ctx context.Context, owner, id uuid.UUID) (models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).Take(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Recipe{}, ErrNotFound
	}
	return recipe, err
}

func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *RecipeRepository) Update(ctx context.Context, owner, id uuid.UUID, name, content string) (models.Recipe, error) {
	return r.update(ctx, owner, id, map[string]interface{}{"name": name, "content": content})
}

func (r *RecipeRepository) SetFavorite(ctx context.Context, owner, id uuid.UUID, favorite bool) (models.Recipe, error) {
	return r.update(ctx, owner, id, map[string]interface{}{"is_favorite": favorite})
}

func (r *RecipeRepository) update(ctx context.Context, owner, id uuid.UUID, fields map[string]interface{}) (models.Recipe, error) {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", id, owner).
		Updates(fields)
	if res.Error != nil {
		return models.Recipe{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Recipe{}, ErrNotFound
	}
	return r.Get(ctx, owner, id)
}

func (r *RecipeRepository) Delete(ctx context.Context, owner, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, owner).
		Delete(&models.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

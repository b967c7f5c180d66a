package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrRecipeNotFound  = errors.New("recipe not found")
	ErrInvalidRecipe   = errors.New("recipe name and content are required")
	ErrSharingDisabled = errors.New("recipe sharing is not configured")
)

const shareLinkExpiration = 24 * time.Hour

// RecipeService handles saved recipe operations
type RecipeService struct {
	recipes RecipeStore
	storage ObjectStorage
	log     *zap.Logger
}

// NewRecipeService creates a new RecipeService instance. A nil storage
// disables sharing.
func NewRecipeService(recipes RecipeStore, storage ObjectStorage, log *zap.Logger) *RecipeService {
	return &RecipeService{recipes: recipes, storage: storage, log: log}
}

// Save stores a generated recipe under the given name
func (s *RecipeService) Save(ctx context.Context, user uuid.UUID, name, content string) (models.Recipe, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(content) == "" {
		return models.Recipe{}, ErrInvalidRecipe
	}
	recipe := models.Recipe{UserID: user, Name: name, Content: content}
	if err := s.recipes.Create(ctx, &recipe); err != nil {
		return models.Recipe{}, fmt.Errorf("save recipe: %w", err)
	}
	return recipe, nil
}

// List returns the user's recipes, optionally only favourites
func (s *RecipeService) List(ctx context.Context, user uuid.UUID, favoritesOnly bool) ([]models.Recipe, error) {
	return s.recipes.ListByOwner(ctx, user, favoritesOnly)
}

func (s *RecipeService) Get(ctx context.Context, user, id uuid.UUID) (models.Recipe, error) {
	recipe, err := s.recipes.Get(ctx, user, id)
	return recipe, notFound(err)
}

// Update replaces the name and content of a recipe
func (s *RecipeService) Update(ctx context.Context, user, id uuid.UUID, name, content string) (models.Recipe, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(content) == "" {
		return models.Recipe{}, ErrInvalidRecipe
	}
	recipe, err := s.recipes.Update(ctx, user, id, name, content)
	return recipe, notFound(err)
}

// ToggleFavorite flips the favourite flag and returns the updated recipe
func (s *RecipeService) ToggleFavorite(ctx context.Context, user, id uuid.UUID) (models.Recipe, error) {
	recipe, err := s.recipes.Get(ctx, user, id)
	if err != nil {
		return models.Recipe{}, notFound(err)
	}
	recipe, err = s.recipes.SetFavorite(ctx, user, id, !recipe.IsFavorite)
	return recipe, notFound(err)
}

func (s *RecipeService) Delete(ctx context.Context, user, id uuid.UUID) error {
	return notFound(s.recipes.Delete(ctx, user, id))
}

// Share uploads the recipe as Markdown and returns a download link valid
// for 24 hours.
func (s *RecipeService) Share(ctx context.Context, user, id uuid.UUID) (string, error) {
	if s.storage == nil {
		return "", ErrSharingDisabled
	}
	recipe, err := s.recipes.Get(ctx, user, id)
	if err != nil {
		return "", notFound(err)
	}

	key := fmt.Sprintf("shared/%s/%s.md", user, recipe.ID)
	body := fmt.Sprintf("# %s\n\n%s\n", recipe.Name, recipe.Content)
	if err := s.storage.PutObject(ctx, key, []byte(body), "text/markdown; charset=utf-8"); err != nil {
		s.log.Error("Failed to upload shared recipe", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("share recipe: %w", err)
	}
	url, err := s.storage.PresignGet(ctx, key, shareLinkExpiration)
	if err != nil {
		return "", fmt.Errorf("share recipe: %w", err)
	}
	return url, nil
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRecipeNotFound
	}
	return err
}

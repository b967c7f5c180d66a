package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pageza/pantrychef/backend/internal/dietary"
	"github.com/pageza/pantrychef/backend/internal/models"
)

var ErrEmptyInventory = errors.New("add at least one product before generating a recipe")

// pantryReader is the part of SyncService recipe suggestion needs.
type pantryReader interface {
	Inventory(ctx context.Context, user uuid.UUID) []models.Product
	CurrentProfile(ctx context.Context, user uuid.UUID) dietary.Profile
}

// GenerationService suggests a recipe from the user's pantry and profile.
type GenerationService struct {
	pantry    pantryReader
	generator *RecipeGenerator
}

func NewGenerationService(pantry pantryReader, generator *RecipeGenerator) *GenerationService {
	return &GenerationService{pantry: pantry, generator: generator}
}

// SuggestRecipe returns generated recipe text, or RecipeFallbackMessage when
// generation fails. Concurrent calls are independent.
func (s *GenerationService) SuggestRecipe(ctx context.Context, user uuid.UUID) (string, error) {
	products := s.pantry.Inventory(ctx, user)
	if len(products) == 0 {
		return "", ErrEmptyInventory
	}
	prompt := BuildPrompt(models.ProductNames(products), s.pantry.CurrentProfile(ctx, user))
	return s.generator.Generate(ctx, prompt), nil
}

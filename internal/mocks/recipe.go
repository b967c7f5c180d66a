package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/pantrychef/backend/internal/models"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Save(ctx context.Context, user uuid.UUID, name, content string) (models.Recipe, error) {
	args := m.Called(ctx, user, name, content)
	return args.Get(0).(models.Recipe), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, user uuid.UUID, favoritesOnly bool) ([]models.Recipe, error) {
	args := m.Called(ctx, user, favoritesOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Get(ctx context.Context, user, id uuid.UUID) (models.Recipe, error) {
	args := m.Called(ctx, user, id)
	return args.Get(0).(models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, user, id uuid.UUID, name, content string) (models.Recipe, error) {
	args := m.Called(ctx, user, id, name, content)
	return args.Get(0).(models.Recipe), args.Error(1)
}

func (m *MockRecipeService) ToggleFavorite(ctx context.Context, user, id uuid.UUID) (models.Recipe, error) {
	args := m.Called(ctx, user, id)
	return args.Get(0).(models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, user, id uuid.UUID) error {
	args := m.Called(ctx, user, id)
	return args.Error(0)
}

func (m *MockRecipeService) Share(ctx context.Context, user, id uuid.UUID) (string, error) {
	args := m.Called(ctx, user, id)
	return args.String(0), args.Error(1)
}

// MockGenerationService is a mock implementation of the recipe generation service
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) SuggestRecipe(ctx context.Context, user uuid.UUID) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

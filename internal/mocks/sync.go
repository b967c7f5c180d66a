package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/pantrychef/backend/internal/dietary"
	"github.com/pageza/pantrychef/backend/internal/models"
)

// MockSyncService is a mock implementation of service.ISyncService
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) LoadInventory(ctx context.Context, user uuid.UUID) []models.Product {
	args := m.Called(ctx, user)
	return args.Get(0).([]models.Product)
}

func (m *MockSyncService) LoadProfile(ctx context.Context, user uuid.UUID) dietary.Profile {
	args := m.Called(ctx, user)
	return args.Get(0).(dietary.Profile)
}

func (m *MockSyncService) Inventory(ctx context.Context, user uuid.UUID) []models.Product {
	args := m.Called(ctx, user)
	return args.Get(0).([]models.Product)
}

func (m *MockSyncService) CurrentProfile(ctx context.Context, user uuid.UUID) dietary.Profile {
	args := m.Called(ctx, user)
	return args.Get(0).(dietary.Profile)
}

func (m *MockSyncService) AddProduct(ctx context.Context, user uuid.UUID, name string) (models.Product, error) {
	args := m.Called(ctx, user, name)
	return args.Get(0).(models.Product), args.Error(1)
}

func (m *MockSyncService) DeleteProduct(ctx context.Context, user, productID uuid.UUID) error {
	args := m.Called(ctx, user, productID)
	return args.Error(0)
}

func (m *MockSyncService) ReplaceProfile(ctx context.Context, user uuid.UUID, raw map[string]any) (dietary.Profile, error) {
	args := m.Called(ctx, user, raw)
	return args.Get(0).(dietary.Profile), args.Error(1)
}

func (m *MockSyncService) ToggleDietary(ctx context.Context, user uuid.UUID, category dietary.Category, item string) (dietary.Profile, error) {
	args := m.Called(ctx, user, category, item)
	return args.Get(0).(dietary.Profile), args.Error(1)
}

func (m *MockSyncService) AddCustomAllergen(ctx context.Context, user uuid.UUID, value string) (dietary.Profile, error) {
	args := m.Called(ctx, user, value)
	return args.Get(0).(dietary.Profile), args.Error(1)
}

func (m *MockSyncService) RemoveCustomAllergen(ctx context.Context, user uuid.UUID, value string) (dietary.Profile, error) {
	args := m.Called(ctx, user, value)
	return args.Get(0).(dietary.Profile), args.Error(1)
}

func (m *MockSyncService) Warm(ctx context.Context, user uuid.UUID) {
	m.Called(ctx, user)
}

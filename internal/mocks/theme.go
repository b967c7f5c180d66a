package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/pantrychef/backend/internal/service"
)

// MockThemeService is a mock implementation of the theme service
type MockThemeService struct {
	mock.Mock
}

func (m *MockThemeService) Current(ctx context.Context, user uuid.UUID) service.Theme {
	args := m.Called(ctx, user)
	return args.Get(0).(service.Theme)
}

func (m *MockThemeService) Next(ctx context.Context, user uuid.UUID) (service.Theme, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(service.Theme), args.Error(1)
}

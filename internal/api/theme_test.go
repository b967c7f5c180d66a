package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/pantrychef/backend/internal/mocks"
	"github.com/pageza/pantrychef/backend/internal/service"
)

func TestThemeHandlers(t *testing.T) {
	userID := uuid.New()
	themeService := new(mocks.MockThemeService)
	handler := NewThemeHandler(themeService)
	router, v1 := newTestRouter(userID)
	v1.GET("/preferences/theme", handler.GetTheme)
	v1.POST("/preferences/theme/next", handler.NextTheme)

	themeService.On("Current", mock.Anything, userID).Return(service.Theme{Index: 0, Name: "Burgundy"})
	themeService.On("Next", mock.Anything, userID).Return(service.Theme{Index: 1, Name: "Green"}, nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/preferences/theme", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Burgundy", decode(t, w)["theme"].(map[string]any)["name"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/preferences/theme/next", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["theme"].(map[string]any)["index"])
}

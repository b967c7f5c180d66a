package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/pantrychef/backend/internal/middleware"
	"github.com/pageza/pantrychef/backend/internal/mocks"
	"github.com/pageza/pantrychef/backend/internal/models"
	"github.com/pageza/pantrychef/backend/internal/service"
)

func setupAuthRouter(userID uuid.UUID) (*gin.Engine, *mocks.MockAuthService, *mocks.MockSyncService) {
	authService := new(mocks.MockAuthService)
	syncService := new(mocks.MockSyncService)
	handler := NewAuthHandler(authService, syncService, false)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	v1 := router.Group("/api/v1/auth")
	v1.POST("/register", handler.Register)
	v1.POST("/login", handler.Login)
	protected := v1.Group("", withUser(userID, "sess-1"))
	protected.GET("/me", handler.Me)
	protected.POST("/logout", handler.Logout)
	return router, authService, syncService
}

func TestRegisterHandler(t *testing.T) {
	user := models.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}

	tests := []struct {
		name       string
		body       map[string]any
		setupMock  func(*mocks.MockAuthService)
		wantStatus int
	}{
		{
			name: "created",
			body: map[string]any{"name": "Ada", "email": "ada@example.com", "password": "password123"},
			setupMock: func(m *mocks.MockAuthService) {
				m.On("Register", mock.Anything, "Ada", "ada@example.com", "password123").Return(user, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid email",
			body:       map[string]any{"name": "Ada", "email": "nope", "password": "password123"},
			setupMock:  func(m *mocks.MockAuthService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			body:       map[string]any{"name": "Ada", "email": "ada@example.com", "password": "short"},
			setupMock:  func(m *mocks.MockAuthService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "email taken",
			body: map[string]any{"name": "Ada", "email": "ada@example.com", "password": "password123"},
			setupMock: func(m *mocks.MockAuthService) {
				m.On("Register", mock.Anything, "Ada", "ada@example.com", "password123").Return(models.User{}, service.ErrEmailTaken)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, authService, _ := setupAuthRouter(uuid.New())
			tt.setupMock(authService)

			w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			authService.AssertExpectations(t)
		})
	}
}

func TestLoginHandler(t *testing.T) {
	user := models.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}

	t.Run("remember me sets a persistent cookie and warms caches", func(t *testing.T) {
		router, authService, syncService := setupAuthRouter(user.ID)
		session := service.Session{ID: "s1", Token: "tok", ExpiresAt: time.Now().Add(service.RememberedSessionTTL), Persistent: true, User: user}
		authService.On("Login", mock.Anything, "ada@example.com", "password123", true).Return(session, nil)
		syncService.On("Warm", mock.Anything, user.ID).Return()

		w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
			map[string]any{"email": "ada@example.com", "password": "password123", "remember_me": true})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "tok", body["token"])
		assert.Equal(t, true, body["persistent"])

		cookies := w.Result().Cookies()
		if assert.Len(t, cookies, 1) {
			assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
			assert.Equal(t, "tok", cookies[0].Value)
			assert.True(t, cookies[0].HttpOnly)
			assert.Greater(t, cookies[0].MaxAge, 0)
		}
		syncService.AssertExpectations(t)
	})

	t.Run("without remember me the cookie ends with the browser session", func(t *testing.T) {
		router, authService, syncService := setupAuthRouter(user.ID)
		session := service.Session{ID: "s2", Token: "tok2", ExpiresAt: time.Now().Add(service.SessionTTL), User: user}
		authService.On("Login", mock.Anything, "ada@example.com", "password123", false).Return(session, nil)
		syncService.On("Warm", mock.Anything, user.ID).Return()

		w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
			map[string]any{"email": "ada@example.com", "password": "password123"})

		assert.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		if assert.Len(t, cookies, 1) {
			assert.Equal(t, 0, cookies[0].MaxAge)
			assert.True(t, cookies[0].Expires.IsZero())
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		router, authService, syncService := setupAuthRouter(user.ID)
		authService.On("Login", mock.Anything, "ada@example.com", "wrong", false).Return(service.Session{}, service.ErrInvalidCredentials)

		w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
			map[string]any{"email": "ada@example.com", "password": "wrong"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
		syncService.AssertNotCalled(t, "Warm", mock.Anything, mock.Anything)
	})
}

func TestMeAndLogoutHandlers(t *testing.T) {
	user := models.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}
	router, authService, _ := setupAuthRouter(user.ID)
	authService.On("CurrentUser", mock.Anything, user.ID).Return(user, nil)
	authService.On("Logout", mock.Anything, "sess-1").Return(nil)

	w := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", decode(t, w)["user"].(map[string]any)["email"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, "", cookies[0].Value)
		assert.Less(t, cookies[0].MaxAge, 0)
	}
	authService.AssertExpectations(t)
}

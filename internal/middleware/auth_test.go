package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/pantrychef/backend/internal/types"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if claims := args.Get(0); claims != nil {
		return claims.(*types.TokenClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	claims := &types.TokenClaims{UserID: userID, SessionID: "sess-1"}

	tests := []struct {
		name       string
		header     string
		cookie     string
		setupMock  func(*mockValidator)
		wantStatus int
	}{
		{
			name:       "bearer token",
			header:     "Bearer good",
			setupMock:  func(m *mockValidator) { m.On("ValidateToken", "good").Return(claims, nil) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "session cookie",
			cookie:     "good",
			setupMock:  func(m *mockValidator) { m.On("ValidateToken", "good").Return(claims, nil) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing credentials",
			setupMock:  func(m *mockValidator) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			header:     "Token good",
			cookie:     "good",
			setupMock:  func(m *mockValidator) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejected token",
			header:     "Bearer stale",
			setupMock:  func(m *mockValidator) { m.On("ValidateToken", "stale").Return(nil, errors.New("session expired")) },
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := new(mockValidator)
			tt.setupMock(validator)

			router := gin.New()
			router.GET("/me", AuthMiddleware(validator), func(c *gin.Context) {
				assert.Equal(t, userID, c.MustGet("user_id"))
				assert.Equal(t, "sess-1", c.MustGet("session_id"))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			validator.AssertExpectations(t)
		})
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

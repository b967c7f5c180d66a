package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/cache"
	"github.com/pageza/pantrychef/backend/internal/server"
	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/testdb"
)

type testApp struct {
	t      *testing.T
	srv    *server.Server
	store  *cache.MemoryStore
	token  string
	cookie *http.Cookie
}

func newTestApp(t *testing.T, db *gorm.DB, gen service.TextGenerator, provider string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		ServerHost:     "localhost",
		ServerPort:     "0",
		AllowedOrigins: []string{"http://localhost:3000"},
		JWTSecret:      "integration-secret",
		LLMProvider:    provider,
	}
	store := cache.NewMemoryStore()
	srv := server.New(cfg, server.Dependencies{
		DB:        db,
		Cache:     store,
		Generator: gen,
		Registry:  prometheus.NewRegistry(),
		Logger:    zaptest.NewLogger(t),
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return &testApp{t: t, srv: srv, store: store}
}

func (a *testApp) request(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	w := httptest.NewRecorder()
	a.srv.Handler().ServeHTTP(w, req)
	return w
}

func (a *testApp) signUp(email string, remember bool) {
	a.t.Helper()
	w := a.request(http.MethodPost, "/api/v1/auth/register", map[string]any{"name": "Tester", "email": email, "password": "password123"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w = a.request(http.MethodPost, "/api/v1/auth/login", map[string]any{"email": email, "password": "password123", "remember_me": remember})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &session))
	a.token = session.Token
}

func TestPostgresProfileSync(t *testing.T) {
	db := testdb.Postgres(t)
	app := newTestApp(t, db, &cannedGenerator{}, "gemini")
	app.signUp("pg@example.com", false)

	w := app.request(http.MethodPut, "/api/v1/profile/dietary", map[string]any{
		"allergens":       map[string]any{"shellfish": true, "customAllergens": []string{"sesame"}},
		"healthGoals":     map[string]any{"lowCarb": true},
		"unknownCategory": map[string]any{"x": true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.request(http.MethodPost, "/api/v1/products", map[string]any{"name": "cauliflower"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.srv.Shutdown(ctx))

	var stored struct {
		Preferences string
		Revision    int64
	}
	require.NoError(t, db.Raw("SELECT array_to_string(preferences, ',') AS preferences, revision FROM dietary_profiles").Scan(&stored).Error)
	assert.Equal(t, "allergens:shellfish,allergens:sesame,healthGoals:lowCarb", stored.Preferences)
	assert.Equal(t, int64(1), stored.Revision)
}

func TestSessionCookieAuthenticates(t *testing.T) {
	app := newTestApp(t, testdb.SQLite(t), &cannedGenerator{}, "gemini")
	app.signUp("cookie@example.com", true)

	// Log in again to capture the cookie, then drop the bearer token.
	w := app.request(http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "cookie@example.com", "password": "password123", "remember_me": true})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	app.token = ""
	app.cookie = cookies[0]

	w = app.request(http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cookie@example.com")
}

func TestProfileSurvivesRemoteOutage(t *testing.T) {
	db := testdb.SQLite(t)
	app := newTestApp(t, db, &cannedGenerator{}, "gemini")
	app.signUp("offline@example.com", false)

	w := app.request(http.MethodPost, "/api/v1/profile/dietary/toggle", map[string]any{"category": "preferences", "item": "halal"})
	require.Equal(t, http.StatusOK, w.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.srv.Shutdown(ctx))

	// Take the remote store away.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = app.request(http.MethodGet, "/api/v1/profile/dietary?refresh=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"halal":true`)

	w = app.request(http.MethodPost, "/api/v1/products", map[string]any{"name": "dates"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = app.request(http.MethodGet, "/api/v1/products?refresh=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "dates")
}

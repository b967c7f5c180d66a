package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pantrychef/backend/internal/service"
	"github.com/pageza/pantrychef/backend/internal/testdb"
)

type cannedGenerator struct{}

func (cannedGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return "👩‍🍳 Something tasty", nil
}

type generateResponse struct {
	Recipe   string `json:"recipe"`
	Fallback bool   `json:"fallback"`
}

func TestRecipeGenerationThroughDeepSeek(t *testing.T) {
	var calls atomic.Int32
	var failing atomic.Bool
	var lastPrompt atomic.Value

	deepseek := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req service.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Messages) > 0 {
			lastPrompt.Store(req.Messages[len(req.Messages)-1].Content)
		}
		if failing.Load() {
			http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"👩‍🍳 Lentil soup\n\nBon appétit! 🍽️"}}]}`))
	}))
	defer deepseek.Close()

	app := newTestApp(t, testdb.SQLite(t), service.NewDeepSeekClient("test-key", deepseek.URL), "deepseek")
	app.signUp("chef@example.com", false)

	for _, name := range []string{"lentils", "carrots", "onion"} {
		w := app.request(http.MethodPost, "/api/v1/products", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := app.request(http.MethodPost, "/api/v1/profile/dietary/toggle", map[string]any{"category": "healthGoals", "item": "lowSodium"})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(http.MethodPost, "/api/v1/recipes/generate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp generateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Fallback)
	assert.Contains(t, resp.Recipe, "Lentil soup")

	prompt, _ := lastPrompt.Load().(string)
	assert.Contains(t, prompt, "lentils, carrots, onion")
	assert.Contains(t, prompt, "Dietary Restrictions: None")
	assert.Contains(t, prompt, "Health Considerations: lowSodium")

	// A provider failure yields the fallback text after a single attempt.
	failing.Store(true)
	before := calls.Load()
	w = app.request(http.MethodPost, "/api/v1/recipes/generate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Fallback)
	assert.Equal(t, service.RecipeFallbackMessage, resp.Recipe)
	assert.Equal(t, before+1, calls.Load())

	w = app.request(http.MethodGet, "/metrics", nil)
	assert.Contains(t, w.Body.String(), `provider="deepseek"`)
}

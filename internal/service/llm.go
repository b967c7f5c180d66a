package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pageza/pantrychef/backend/internal/metrics"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// RecipeFallbackMessage replaces the completion whenever generation fails.
const RecipeFallbackMessage = "Sorry, there was an error generating your recipe. Please try again later."

const (
	DefaultGeminiModel   = "gemini-1.5-pro"
	DefaultDeepSeekURL   = "https://api.deepseek.com/v1/chat/completions"
	deepSeekModel        = "deepseek-chat"
	deepSeekSystemPrompt = "You are a friendly and enthusiastic chef assistant. Answer in Markdown."
)

var ErrEmptyCompletion = errors.New("no content generated")

// GeminiClient is a TextGenerator backed by the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{client: client, model: client.GenerativeModel(model)}, nil
}

func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return sb.String(), nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the DeepSeek API
type ChatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"top_p"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	PresencePenalty  float64   `json:"presence_penalty"`
}

// DeepSeekClient is a TextGenerator backed by the DeepSeek chat completions API.
type DeepSeekClient struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

func NewDeepSeekClient(apiKey, apiURL string) *DeepSeekClient {
	if apiURL == "" {
		apiURL = DefaultDeepSeekURL
	}
	return &DeepSeekClient{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *DeepSeekClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model: deepSeekModel,
		Messages: []Message{
			{Role: "system", Content: deepSeekSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:      0.9, // Higher temperature for more creativity
		TopP:             0.9,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.5,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return result.Choices[0].Message.Content, nil
}

// RecipeGenerator makes exactly one generation attempt per call and turns
// every failure into RecipeFallbackMessage.
type RecipeGenerator struct {
	gen      TextGenerator
	provider string
	log      *zap.Logger
	metrics  *metrics.Metrics
}

// NewRecipeGenerator wraps gen, labelling its metrics with provider.
func NewRecipeGenerator(gen TextGenerator, provider string, log *zap.Logger, m *metrics.Metrics) *RecipeGenerator {
	return &RecipeGenerator{gen: gen, provider: provider, log: log, metrics: m}
}

func (g *RecipeGenerator) Generate(ctx context.Context, prompt string) string {
	text, err := g.gen.GenerateContent(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyCompletion
	}
	if err != nil {
		g.log.Error("Error generating recipe", zap.String("provider", g.provider), zap.Error(err))
		g.metrics.RecipeGenerations.WithLabelValues(g.provider, metrics.OutcomeFallback).Inc()
		return RecipeFallbackMessage
	}
	g.metrics.RecipeGenerations.WithLabelValues(g.provider, metrics.OutcomeSuccess).Inc()
	return text
}

package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"recircuit-api/config"
)

// ImageInput is an inline image attached to a chat message.
type ImageInput struct {
	Data     []byte
	MIMEType string
}

// ChatRequest is a single-turn conversation: one system prompt and one user
// message, optionally with an image. Every call starts a fresh session.
type ChatRequest struct {
	SystemPrompt string
	UserText     string
	Image        *ImageInput
}

// LLMClient sends one chat request to a completion service and returns the
// raw reply text.
type LLMClient interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// NewLLMClient builds the provider selected by LLM_PROVIDER.
func NewLLMClient(ctx context.Context, cfg *config.Config) (LLMClient, error) {
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is not configured")
	}

	switch cfg.LLMProvider {
	case "gemini":
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		})
	case "openai", "":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &http.Client{Timeout: timeout}
}

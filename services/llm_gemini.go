package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type GeminiConfig struct {
	APIKey string
	// BaseURL overrides the Gemini API endpoint; empty uses the SDK default.
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GeminiClient implements LLMClient on top of the Google GenAI SDK.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &GeminiClient{client: client, model: model, timeout: timeout}, nil
}

func (c *GeminiClient) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	start := time.Now()

	parts := []*genai.Part{genai.NewPartFromText(req.UserText)}
	if req.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(req.Image.Data, req.Image.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	var genCfg *genai.GenerateContentConfig
	if req.SystemPrompt != "" {
		genCfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("llm returned an empty response")
	}

	log.Ctx(ctx).Debug().
		Str("provider", "gemini").
		Str("model", c.model).
		Bool("image", req.Image != nil).
		Dur("took", time.Since(start)).
		Msg("llm chat completed")

	return text, nil
}

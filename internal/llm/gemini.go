package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiConfig holds configuration for the Gemini client
type GeminiConfig struct {
	APIKey          string
	Model           string
	BaseURL         string
	MaxOutputTokens int32
	Temperature     float32
	Timeout         time.Duration
	HTTPClient      *http.Client
}

// DefaultGeminiConfig returns default configuration
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		Model:           "gemini-2.0-flash",
		MaxOutputTokens: 300,
		Temperature:     0.3,
		Timeout:         60 * time.Second,
	}
}

// GeminiClient generates completions with the Google Gemini API
type GeminiClient struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
	timeout     time.Duration
}

// NewGeminiClient creates a client. It does not contact the service.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	defaults := DefaultGeminiConfig()
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = defaults.MaxOutputTokens
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.HTTPClient != nil {
		cc.HTTPClient = cfg.HTTPClient
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxOutputTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

// Generate sends prompt as the sole content of a single request. There is
// no retry; every failure is returned in the Outcome.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) Outcome {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	out := Outcome{Model: c.model}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: c.maxTokens,
		Temperature:     genai.Ptr(c.temperature),
	})
	out.Latency = time.Since(start)
	if err != nil {
		out.Err = fmt.Errorf("generation failed: %w", err)
		return out
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		out.Err = ErrEmptyCompletion
		return out
	}
	out.Text = text
	return out
}

// Info returns the generation settings, never the credential.
func (c *GeminiClient) Info() map[string]interface{} {
	return map[string]interface{}{
		"provider":          "gemini",
		"model":             c.model,
		"max_output_tokens": c.maxTokens,
		"temperature":       c.temperature,
		"timeout":           c.timeout.String(),
	}
}

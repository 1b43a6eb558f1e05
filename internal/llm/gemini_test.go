package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a GeminiClient at a local server.
func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*GeminiConfig)) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultGeminiConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = srv.URL
	cfg.HTTPClient = srv.Client()
	if mutate != nil {
		mutate(&cfg)
	}

	c, err := NewGeminiClient(context.Background(), cfg)
	require.NoError(t, err)
	return c
}

func writeCompletion(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []interface{}{map[string]interface{}{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

func TestGenerateSendsPromptAndSettings(t *testing.T) {
	var (
		gotPath string
		gotKey  string
		body    map[string]interface{}
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if gotKey == "" {
			gotKey = r.URL.Query().Get("key")
		}
		json.NewDecoder(r.Body).Decode(&body)
		writeCompletion(w, "  Prediction: Potable\n")
	}, nil)

	out := c.Generate(context.Background(), "is this water safe?")
	require.True(t, out.OK(), "unexpected error: %v", out.Err)
	assert.Equal(t, "Prediction: Potable", out.Text)
	assert.Equal(t, "gemini-2.0-flash", out.Model)

	assert.Contains(t, gotPath, "gemini-2.0-flash")
	assert.True(t, strings.HasSuffix(gotPath, ":generateContent"), gotPath)
	assert.Equal(t, "test-key", gotKey)

	raw, _ := json.Marshal(body["contents"])
	assert.Contains(t, string(raw), "is this water safe?")

	gen, ok := body["generationConfig"].(map[string]interface{})
	require.True(t, ok, "generationConfig missing from request: %v", body)
	assert.InDelta(t, 300, gen["maxOutputTokens"], 0)
	assert.InDelta(t, 0.3, gen["temperature"], 1e-6)
}

func TestGenerateServiceError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}, nil)

	out := c.Generate(context.Background(), "prompt")
	require.False(t, out.OK())
	assert.Empty(t, out.Text)
	assert.Contains(t, out.Err.Error(), "generation failed")
}

func TestGenerateEmptyCompletion(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}, nil)

	out := c.Generate(context.Background(), "prompt")
	require.False(t, out.OK())
	assert.True(t, errors.Is(out.Err, ErrEmptyCompletion))
}

func TestGenerateTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, func(cfg *GeminiConfig) {
		cfg.Timeout = 50 * time.Millisecond
	})

	out := c.Generate(context.Background(), "prompt")
	assert.False(t, out.OK())
}

func TestInfoOmitsKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)

	info := c.Info()
	assert.Equal(t, "gemini-2.0-flash", info["model"])
	for _, v := range info {
		assert.NotEqual(t, "test-key", v)
	}
}

// Package decor fetches optional page decorations. Failures are never
// surfaced: the page renders without the decoration.
package decor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxAnimationBytes caps the animation document size.
const maxAnimationBytes = 2 << 20

// Loader fetches a Lottie animation document from a URL.
type Loader struct {
	url     string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

// NewLoader creates a loader. An empty url disables loading.
func NewLoader(url string, timeout time.Duration, client *http.Client, logger *zap.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{url: url, timeout: timeout, client: client, logger: logger}
}

// Enabled reports whether a URL is configured.
func (l *Loader) Enabled() bool {
	return l != nil && l.url != ""
}

// Load returns the animation JSON, or nil on any failure.
func (l *Loader) Load(ctx context.Context) json.RawMessage {
	if !l.Enabled() {
		return nil
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		l.logger.Debug("animation request invalid", zap.String("url", l.url), zap.Error(err))
		return nil
	}
	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Debug("animation fetch failed", zap.String("url", l.url), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.logger.Debug("animation fetch failed", zap.String("url", l.url), zap.Int("status", resp.StatusCode))
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAnimationBytes+1))
	if err != nil || len(data) > maxAnimationBytes || !json.Valid(data) {
		l.logger.Debug("animation document rejected", zap.String("url", l.url), zap.Int("bytes", len(data)))
		return nil
	}
	return json.RawMessage(data)
}

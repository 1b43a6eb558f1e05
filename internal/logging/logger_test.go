package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/kartoza/water-potability/internal/config"
)

func TestNewLevels(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = New(config.LoggingConfig{Level: "DEBUG"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewDefaultLevel(t *testing.T) {
	logger, err := New(config.LoggingConfig{})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty"})
	assert.Error(t, err)
}

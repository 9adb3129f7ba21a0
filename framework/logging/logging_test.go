package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-simpla/framework/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("rejects invalid level", func(t *testing.T) {
		_, err := ParseLevel("loud")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "level")
	})
}

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWriter(config.LogConfig{Level: "info", Format: FormatJSON}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("provider booted", zap.String("service", "DB"))
	require.NoError(t, logger.Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "provider booted", line["msg"])
	assert.Equal(t, "DB", line["service"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWriter(config.LogConfig{Level: "debug", Format: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug("service not found", zap.String("service", "cache"))

	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "service not found")
	assert.Contains(t, buf.String(), `"service": "cache"`)
}

func TestNewWriter_InvalidConfig(t *testing.T) {
	_, err := NewWriter(config.LogConfig{Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = NewWriter(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}

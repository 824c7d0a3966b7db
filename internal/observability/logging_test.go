package observability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/statforge/internal/config"
	"github.com/cory-johannsen/statforge/internal/observability"
)

func TestNewLogger_Valid(t *testing.T) {
	tests := []struct {
		level  string
		format string
	}{
		{"debug", "json"},
		{"info", "console"},
		{"warn", "json"},
		{"error", "console"},
	}
	for _, tc := range tests {
		t.Run(tc.level+"/"+tc.format, func(t *testing.T) {
			logger, err := observability.NewLogger(config.LoggingConfig{
				Level:  tc.level,
				Format: tc.format,
			})
			require.NoError(t, err)
			require.NotNil(t, logger)
			logger.Info("logger constructed")
			_ = logger.Sync()
		})
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "verbose", Format: "json"})
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

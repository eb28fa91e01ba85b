package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 1922, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "database", cfg.StoreBackend)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.TokenIDLength)
	assert.Equal(t, "[", cfg.PlaceholderOpen)
	assert.Equal(t, "]", cfg.PlaceholderClose)
	assert.Equal(t, "aes-gcm", cfg.EncryptionAlgorithm)
	assert.Equal(t, 0.5, cfg.DetectorMinConfidence)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "privacy_gateway", cfg.MetricsNamespace)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("TOKEN_STORE_BACKEND", "memory")
	t.Setenv("TOKEN_TTL_HOURS", "1")
	t.Setenv("PLACEHOLDER_OPEN", "<<")
	t.Setenv("PLACEHOLDER_CLOSE", ">>")
	t.Setenv("ENCRYPTION_ALGORITHM", "chacha20-poly1305")

	cfg := Load()

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, "<<", cfg.PlaceholderOpen)
	assert.Equal(t, ">>", cfg.PlaceholderClose)
	assert.Equal(t, "chacha20-poly1305", cfg.EncryptionAlgorithm)
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}

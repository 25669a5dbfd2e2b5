package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 60*time.Second, cfg.DefaultTimeLimit)
	assert.Equal(t, "teacher", cfg.DefaultCreator)
	assert.Equal(t, 10000, cfg.MaxWebSocketConnections)
	assert.Equal(t, 100, cfg.MaxConnectionsPerIP)
	assert.InDelta(t, 10.0, cfg.ConnectionRatePerSecond, 0.001)
	assert.Equal(t, 20, cfg.ConnectionRateBurst)
	assert.InDelta(t, 1.0, cfg.LoginRatePerSecond, 0.001)
	assert.Equal(t, 5, cfg.LoginRateBurst)
	assert.Equal(t, []string{"*"}, cfg.Origins())
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DEFAULT_TIME_LIMIT", "90s")
	t.Setenv("DEFAULT_CREATOR", "presenter")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.DefaultTimeLimit)
	assert.Equal(t, "presenter", cfg.DefaultCreator)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"empty PORT", "PORT", "", "PORT is required"},
		{"sub-second time limit", "DEFAULT_TIME_LIMIT", "500ms", "DEFAULT_TIME_LIMIT must be at least 1s"},
		{"blank creator", "DEFAULT_CREATOR", "  ", "DEFAULT_CREATOR must not be empty"},
		{"zero max connections", "MAX_WEBSOCKET_CONNECTIONS", "0", "MAX_WEBSOCKET_CONNECTIONS must be positive"},
		{"negative per-IP limit", "MAX_CONNECTIONS_PER_IP", "-1", "MAX_CONNECTIONS_PER_IP must be positive"},
		{"zero rate", "CONNECTION_RATE_PER_SECOND", "0", "CONNECTION_RATE_PER_SECOND must be positive"},
		{"zero burst", "CONNECTION_RATE_BURST", "0", "CONNECTION_RATE_BURST must be positive"},
		{"zero login burst", "LOGIN_RATE_BURST", "0", "LOGIN_RATE_PER_SECOND and LOGIN_RATE_BURST must be positive"},
		{"no origins", "ALLOWED_ORIGINS", " , ", "ALLOWED_ORIGINS must list at least one origin"},
		{"unknown log format", "LOG_FORMAT", "xml", "LOG_FORMAT must be text or json"},
		{"zero shutdown timeout", "SHUTDOWN_TIMEOUT", "0s", "SHUTDOWN_TIMEOUT must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ProductionRejectsWildcardOrigin(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,*")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, "ALLOWED_ORIGINS=* is not allowed in production", err.Error())
}

func TestLoad_DevelopmentAllowsWildcardOrigin(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("ALLOWED_ORIGINS", "*")

	_, err := Load()
	require.NoError(t, err)
}

func TestLoad_MalformedDuration(t *testing.T) {
	t.Setenv("DEFAULT_TIME_LIMIT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load environment variables")
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CHATDESK_API_URL",
		"CHATDESK_TOKEN",
		"CHATDESK_API_TIMEOUT",
		"CHATDESK_WS_URL",
		"CHATDESK_WS_HANDSHAKE_TIMEOUT",
		"CHATDESK_WS_AUTO_RECONNECT",
		"CHATDESK_WS_MAX_RECONNECT_WAIT",
		"CHATDESK_LOG_LEVEL",
		"CHATDESK_LOG_FORMAT",
		"CHATDESK_APP_NAME",
		"CHATDESK_APP_VERSION",
		"CHATDESK_MODE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "ws://localhost:8080/api/v1/ws", cfg.WebSocket.URL)
	assert.True(t, cfg.WebSocket.AutoReconnect)
	assert.Equal(t, time.Minute, cfg.WebSocket.MaxReconnectWait)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ModeReal, cfg.App.Mode)
	assert.False(t, cfg.IsMock())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHATDESK_API_URL", "https://desk.example.com/api/v1")
	t.Setenv("CHATDESK_WS_URL", "wss://desk.example.com/api/v1/ws")
	t.Setenv("CHATDESK_API_TIMEOUT", "5s")
	t.Setenv("CHATDESK_WS_AUTO_RECONNECT", "false")
	t.Setenv("CHATDESK_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://desk.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "wss://desk.example.com/api/v1/ws", cfg.WebSocket.URL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.WebSocket.AutoReconnect)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate_RejectsUnknownMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHATDESK_MODE", "staging")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHATDESK_MODE")
}

func TestValidate_RejectsBadWSScheme(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHATDESK_WS_URL", "http://localhost:8080/ws")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ws:// or wss://")
}

func TestValidate_MockModeSkipsURLChecks(t *testing.T) {
	// In mock mode the URLs are overwritten with the embedded server's
	// address, so placeholder values must pass validation.
	clearEnv(t)
	t.Setenv("CHATDESK_MODE", ModeMock)
	t.Setenv("CHATDESK_WS_URL", "unused")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsMock())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		API:       APIConfig{Timeout: -1},
		WebSocket: WebSocketConfig{},
		App:       AppConfig{Mode: ModeReal},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHATDESK_API_URL")
	assert.Contains(t, err.Error(), "CHATDESK_WS_URL")
	assert.Contains(t, err.Error(), "CHATDESK_API_TIMEOUT")
}

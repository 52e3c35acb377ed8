package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Mode selects the data source behind the client interfaces.
const (
	ModeReal = "real"
	ModeMock = "mock"
)

// Config holds all client configuration.
type Config struct {
	// API configuration
	API APIConfig

	// WebSocket configuration
	WebSocket WebSocketConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// APIConfig holds REST client configuration.
type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// WebSocketConfig holds realtime transport configuration.
type WebSocketConfig struct {
	URL              string
	HandshakeTimeout time.Duration
	AutoReconnect    bool
	MaxReconnectWait time.Duration
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata.
type AppConfig struct {
	Name    string
	Version string
	Mode    string // real, mock
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnvOrDefault("CHATDESK_API_URL", "http://localhost:8080/api/v1"),
			Token:   os.Getenv("CHATDESK_TOKEN"),
			Timeout: getDurationOrDefault("CHATDESK_API_TIMEOUT", 30*time.Second),
		},
		WebSocket: WebSocketConfig{
			URL:              getEnvOrDefault("CHATDESK_WS_URL", "ws://localhost:8080/api/v1/ws"),
			HandshakeTimeout: getDurationOrDefault("CHATDESK_WS_HANDSHAKE_TIMEOUT", 10*time.Second),
			AutoReconnect:    getBoolOrDefault("CHATDESK_WS_AUTO_RECONNECT", true),
			MaxReconnectWait: getDurationOrDefault("CHATDESK_WS_MAX_RECONNECT_WAIT", time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("CHATDESK_LOG_LEVEL", "info"),
			Format: getEnvOrDefault("CHATDESK_LOG_FORMAT", "text"),
		},
		App: AppConfig{
			Name:    getEnvOrDefault("CHATDESK_APP_NAME", "chatdesk-client"),
			Version: getEnvOrDefault("CHATDESK_APP_VERSION", "dev"),
			Mode:    getEnvOrDefault("CHATDESK_MODE", ModeReal),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.App.Mode != ModeReal && c.App.Mode != ModeMock {
		errs = append(errs, "CHATDESK_MODE must be 'real' or 'mock'")
	}

	if c.App.Mode == ModeReal {
		if c.API.BaseURL == "" {
			errs = append(errs, "CHATDESK_API_URL is required")
		}
		if c.WebSocket.URL == "" {
			errs = append(errs, "CHATDESK_WS_URL is required")
		}
		if !strings.HasPrefix(c.WebSocket.URL, "ws://") && !strings.HasPrefix(c.WebSocket.URL, "wss://") {
			errs = append(errs, "CHATDESK_WS_URL must use the ws:// or wss:// scheme")
		}
	}

	if c.API.Timeout <= 0 {
		errs = append(errs, "CHATDESK_API_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsMock returns true when the mock backend mode is selected.
func (c *Config) IsMock() bool {
	return c.App.Mode == ModeMock
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

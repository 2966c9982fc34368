package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	WSReadTimeout  time.Duration
	WSWriteTimeout time.Duration
	LogLevel       string
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64

	// Dashboard sessions
	StoreTimeout       time.Duration
	ToastTTL           time.Duration
	SessionIdleTimeout time.Duration
	SweepInterval      time.Duration

	// Auth
	AuthMode   string
	OIDCIssuer string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173"), ","),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AuthMode:       strings.ToLower(getEnv("AUTH_MODE", "none")),
		OIDCIssuer:     getEnv("OIDC_ISSUER", ""),
	}

	durations := []struct {
		key   string
		def   string
		field *time.Duration
	}{
		{"WS_READ_TIMEOUT", "60", &config.WSReadTimeout},
		{"WS_WRITE_TIMEOUT", "10", &config.WSWriteTimeout},
		{"STORE_TIMEOUT", "10", &config.StoreTimeout},
		{"TOAST_TTL", "3", &config.ToastTTL},
		{"SESSION_IDLE_TIMEOUT", "1800", &config.SessionIdleTimeout},
		{"SWEEP_INTERVAL", "1", &config.SweepInterval},
	}
	for _, d := range durations {
		seconds, err := strconv.Atoi(getEnv(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		if seconds <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive, got %d", d.key, seconds)
		}
		*d.field = time.Duration(seconds) * time.Second
	}

	switch config.AuthMode {
	case "none", "dev":
	case "oidc":
		if config.OIDCIssuer == "" {
			return nil, fmt.Errorf("OIDC_ISSUER is required when AUTH_MODE=oidc")
		}
	default:
		return nil, fmt.Errorf("invalid AUTH_MODE %q", config.AuthMode)
	}

	// Calculate WebSocket constants
	config.PongWait = config.WSReadTimeout
	config.PingPeriod = (config.PongWait * 9) / 10 // Must be less than pongWait
	config.WriteWait = config.WSWriteTimeout
	config.MaxMessageSize = 512

	// Trim spaces from allowed origins
	for i, origin := range config.AllowedOrigins {
		config.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return config, nil
}

// OriginAllowed reports whether origin is in AllowedOrigins. "*" allows all.
func (c *Config) OriginAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

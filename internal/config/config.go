// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ledgerkit/internal/logger"
)

// Config holds everything the client needs to talk to the accounting
// backend. Values come from environment variables (a .env file is loaded
// by main before this runs).
type Config struct {
	// Backend Configuration
	APIBaseURL     string
	RequestTimeout time.Duration

	// Credentials file where the session token and user record persist
	// between invocations.
	CredentialsFile string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load builds a Config from the environment and validates it.
func Load() (*Config, error) {
	timeout, err := parseTimeout(getEnv("LEDGER_REQUEST_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config := &Config{
		APIBaseURL:      getEnv("LEDGER_API_BASE_URL", "http://localhost:8000"),
		RequestTimeout:  timeout,
		CredentialsFile: getEnv("LEDGER_CREDENTIALS_FILE", defaultCredentialsFile()),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:   getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:       getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("LEDGER_API_BASE_URL is required")
	}
	if c.CredentialsFile == "" {
		return fmt.Errorf("LEDGER_CREDENTIALS_FILE is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("LEDGER_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config.
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func parseTimeout(seconds string) (time.Duration, error) {
	n, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, fmt.Errorf("LEDGER_REQUEST_TIMEOUT must be a number of seconds: %w", err)
	}
	return time.Duration(n) * time.Second, nil
}

func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ledgerkit-credentials.json"
	}
	return filepath.Join(home, ".ledgerkit", "credentials.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

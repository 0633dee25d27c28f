package config

import (
	"fmt"
	"os"
	"strconv"

	"formfill/internal/logger"
)

type Config struct {
	// OpenAI Configuration
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Form analysis configuration
	Model     string
	RasterDPI int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		Model:         getEnv("FORMFILL_MODEL", "gpt-4o"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stdout"),
	}

	dpi, err := strconv.Atoi(getEnv("FORMFILL_DPI", "150"))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: FORMFILL_DPI must be an integer: %w", err)
	}
	config.RasterDPI = dpi

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validate checks settings that every command depends on. The OpenAI API
// key is only needed by the fill command and is checked there, after the
// input files have been validated.
func (c *Config) validate() error {
	if c.RasterDPI <= 0 {
		return fmt.Errorf("FORMFILL_DPI must be positive, got %d", c.RasterDPI)
	}
	if c.Model == "" {
		return fmt.Errorf("FORMFILL_MODEL must not be empty")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

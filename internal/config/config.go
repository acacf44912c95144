/**
 * Configuration for the OCR benchmark worker
 *
 * Infrastructure settings come from environment variables (optionally via
 * a .env file); the benchmark run itself is described by config.json. Both
 * are loaded once at process start and passed in explicitly.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds process-level configuration from the environment.
type Config struct {
	// Optional PostgreSQL report sink
	DatabaseURL string

	// Optional Redis endpoint: hypothesis cache and job queue
	RedisURL string

	// Benchmark description file
	ConfigPath string

	// Fallback directory for input resolution
	SampleDataDir string

	// Worker configuration (queued mode)
	QueueName         string
	WorkerConcurrency int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       getEnvOrDefault("DATABASE_URL", ""),
		RedisURL:          getEnvOrDefault("REDIS_URL", ""),
		ConfigPath:        getEnvOrDefault("OCRBENCH_CONFIG", "config.json"),
		SampleDataDir:     getEnvOrDefault("SAMPLE_DATA_DIR", "sample_data"),
		QueueName:         getEnvOrDefault("OCRBENCH_QUEUE", "ocrbench:runs"),
		WorkerConcurrency: getEnvAsIntOrDefault("WORKER_CONCURRENCY", 1),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid.
func (c *Config) Validate() error {
	if c.ConfigPath == "" {
		return fmt.Errorf("OCRBENCH_CONFIG is required")
	}

	// One worker engine set at a time keeps peak memory bounded; allow a
	// small fan-out for API-only engine sets.
	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 8 {
		return fmt.Errorf("WORKER_CONCURRENCY must be between 1 and 8, got %d", c.WorkerConcurrency)
	}

	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

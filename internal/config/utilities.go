package config

import (
	"os"
	"strconv"
	"time"

	"github.com/gabrieldfa/tia/pkg/logger"
)

// GetEnvOrDefault returns the value of an environment variable or a default value
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseEnvInt(key string, defaultValue int) int {
	val := GetEnvOrDefault(key, "")
	if val == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		logger.Warn(logger.CONFIG, "Invalid value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return parsed
}

// parseEnvDuration accepts Go durations ("500ms", "2m") and falls back to the
// default on anything else.
func parseEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := GetEnvOrDefault(key, "")
	if val == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(val)
	if err != nil || parsed < 0 {
		logger.Warn(logger.CONFIG, "Invalid value for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return parsed
}

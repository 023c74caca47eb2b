package config

import (
	"github.com/gabrieldfa/tia/pkg/logger"
)

func GetRedisURL() string {
	logger.Debug(logger.CONFIG, "Attempting to retrieve Redis URL from environment")
	value := GetEnvOrDefault("REDIS_URL", "")
	if value == "" {
		logger.Info(logger.CONFIG, "Redis URL not set - sessions will be kept in memory")
	} else {
		logger.Info(logger.CONFIG, "Redis URL successfully loaded")
	}
	return value
}

func GetRedisPassword() string {
	return GetEnvOrDefault("REDIS_PASSWORD", "")
}

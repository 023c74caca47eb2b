package config

import (
	"sync"
	"time"

	"github.com/gabrieldfa/tia/pkg/logger"
	"github.com/google/uuid"
)

var (
	jwtSecretMu sync.RWMutex
	// JWTSecret signs session cookies. Without JWT_SECRET a random per-process
	// secret is used, so sessions do not survive a restart.
	JWTSecret = loadJWTSecret()

	// SessionCookieName is the name of the session cookie
	SessionCookieName = GetEnvOrDefault("SESSION_COOKIE_NAME", "tia_session")
)

func loadJWTSecret() []byte {
	secret := GetEnvOrDefault("JWT_SECRET", "")
	if secret == "" {
		logger.Warn(logger.CONFIG, "JWT_SECRET not set - using a random secret for this process")
		return []byte(uuid.NewString())
	}
	return []byte(secret)
}

// SetJWTSecret temporarily changes the JWT secret and returns a function to restore it
// This is primarily used for testing
func SetJWTSecret(secret []byte) func() {
	jwtSecretMu.Lock()
	previous := JWTSecret
	JWTSecret = secret
	jwtSecretMu.Unlock()

	return func() {
		jwtSecretMu.Lock()
		JWTSecret = previous
		jwtSecretMu.Unlock()
	}
}

// GetJWTSecret returns the current JWT secret in a thread-safe manner
func GetJWTSecret() []byte {
	jwtSecretMu.RLock()
	defer jwtSecretMu.RUnlock()
	return JWTSecret
}

// GetSessionCookieName returns the configured session cookie name
func GetSessionCookieName() string {
	return SessionCookieName
}

// GetSessionLifetime returns how long a session, and the thread bound to it, stays valid
func GetSessionLifetime() time.Duration {
	return parseEnvDuration("SESSION_LIFETIME", time.Hour)
}

// GetSessionCookieSecure reports whether the session cookie is HTTPS-only.
// Set SESSION_COOKIE_SECURE=false for local development over plain HTTP.
func GetSessionCookieSecure() bool {
	return GetEnvOrDefault("SESSION_COOKIE_SECURE", "true") != "false"
}

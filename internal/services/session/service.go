package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gabrieldfa/tia/internal/config"
	"github.com/gabrieldfa/tia/internal/infrastructure/redis"
	"github.com/gabrieldfa/tia/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims binds a browser session to its conversation thread
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	ThreadID  string `json:"tid"`
}

type SessionStore interface {
	Set(ctx context.Context, sessionID string, claims *SessionClaims) error
	Get(ctx context.Context, sessionID string) (*SessionClaims, error)
	Delete(ctx context.Context, sessionID string) error
}

type RedisStore struct {
	redisService *redis.Service
	lifetime     time.Duration
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionClaims
}

type Service struct {
	store    SessionStore
	lifetime time.Duration
}

func NewService(redisService *redis.Service) *Service {
	lifetime := config.GetSessionLifetime()

	var store SessionStore
	if redisService != nil {
		if err := redisService.Ping(context.Background()); err != nil {
			logger.Error(logger.SESSION, "Redis connection failed: %v", err)
			logger.Warn(logger.SESSION, "Falling back to in-memory session storage")
			store = NewMemoryStore()
		} else {
			logger.Info(logger.SESSION, "Using Redis for session storage")
			store = &RedisStore{redisService: redisService, lifetime: lifetime}
		}
	} else {
		logger.Info(logger.SESSION, "Using in-memory session storage")
		store = NewMemoryStore()
	}

	return NewServiceWithStore(store, lifetime)
}

func NewServiceWithStore(store SessionStore, lifetime time.Duration) *Service {
	return &Service{store: store, lifetime: lifetime}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*SessionClaims),
	}
}

// Redis Store implementation
func (rs *RedisStore) Set(ctx context.Context, sessionID string, claims *SessionClaims) error {
	data, err := json.Marshal(claims)
	if err != nil {
		return err
	}

	return rs.redisService.Set(ctx, "session:"+sessionID, string(data), rs.lifetime)
}

func (rs *RedisStore) Get(ctx context.Context, sessionID string) (*SessionClaims, error) {
	data, err := rs.redisService.Get(ctx, "session:"+sessionID)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var claims SessionClaims
	if err := json.Unmarshal([]byte(data), &claims); err != nil {
		return nil, err
	}

	return &claims, nil
}

func (rs *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return rs.redisService.Delete(ctx, "session:"+sessionID)
}

func expired(claims *SessionClaims, now time.Time) bool {
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}

// Memory Store implementation. Expired sessions are pruned on every Set, the
// in-memory counterpart of the Redis TTL.
func (ms *MemoryStore) Set(ctx context.Context, sessionID string, claims *SessionClaims) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	for id, stored := range ms.sessions {
		if expired(stored, now) {
			delete(ms.sessions, id)
		}
	}

	ms.sessions[sessionID] = claims
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, sessionID string) (*SessionClaims, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	claims, exists := ms.sessions[sessionID]
	if !exists {
		return nil, nil
	}
	if expired(claims, time.Now()) {
		delete(ms.sessions, sessionID)
		return nil, nil
	}
	return claims, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, sessionID)
	return nil
}

// CreateSession stores a new session bound to threadID and sets its cookie
func (s *Service) CreateSession(w http.ResponseWriter, r *http.Request, threadID string) (*SessionClaims, error) {
	sessionID := uuid.New().String()
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        sessionID,
		},
		SessionID: sessionID,
		ThreadID:  threadID,
	}

	if err := s.store.Set(r.Context(), sessionID, claims); err != nil {
		return nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(config.GetJWTSecret())
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    signedToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   config.GetSessionCookieSecure(),
		SameSite: http.SameSiteStrictMode,
		Expires:  now.Add(s.lifetime),
	})
	return claims, nil
}

func parseToken(value string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(value, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return config.GetJWTSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, nil
	}
	return claims, nil
}

// ValidateSession checks if a valid session cookie exists and returns the
// stored claims. A missing or unknown session yields nil claims and no error.
func (s *Service) ValidateSession(r *http.Request) (*SessionClaims, error) {
	cookie, err := r.Cookie(config.GetSessionCookieName())
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	claims, err := parseToken(cookie.Value)
	if err != nil || claims == nil {
		return nil, err
	}

	return s.store.Get(r.Context(), claims.SessionID)
}

// ResolveThread returns the thread bound to the request's session. Requests
// without a usable session get a new thread from newThread and a new session.
func (s *Service) ResolveThread(w http.ResponseWriter, r *http.Request, newThread func(ctx context.Context) (string, error)) (string, error) {
	claims, err := s.ValidateSession(r)
	if err != nil {
		logger.Debug(logger.SESSION, "Ignoring invalid session cookie: %v", err)
	}
	if claims != nil && claims.ThreadID != "" {
		return claims.ThreadID, nil
	}

	threadID, err := newThread(r.Context())
	if err != nil {
		return "", err
	}

	claims, err = s.CreateSession(w, r, threadID)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	logger.Info(logger.SESSION, "Session %s bound to thread %s", claims.SessionID, threadID)
	return threadID, nil
}

// ClearSession removes the session cookie and from storage
func (s *Service) ClearSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(config.GetSessionCookieName()); err == nil {
		if claims, err := parseToken(cookie.Value); err == nil && claims != nil {
			if err := s.store.Delete(r.Context(), claims.SessionID); err != nil {
				logger.Warn(logger.SESSION, "Failed to delete session %s: %v", claims.SessionID, err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   config.GetSessionCookieSecure(),
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

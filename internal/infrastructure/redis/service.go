package redis

import (
	"context"
	"errors"
	"time"

	"github.com/gabrieldfa/tia/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "tia:"

// ErrNotFound is returned by Get for a missing or expired key
var ErrNotFound = errors.New("redis: key not found")

type Service struct {
	client *redis.Client
}

// NewService connects to REDIS_URL. It returns nil when Redis is not
// configured or unreachable; callers fall back to in-memory storage.
func NewService() *Service {
	url := config.GetRedisURL()

	if url == "" {
		return nil
	}

	return NewServiceWithAddr(url, config.GetRedisPassword())
}

func NewServiceWithAddr(addr, password string) *Service {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Error().
			Err(err).
			Str("addr", addr).
			Msg("Failed to establish Redis connection")
		return nil
	}

	return &Service{
		client: client,
	}
}

// Set stores a value in Redis with an optional expiration
func (s *Service) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, expiration).Err(); err != nil {
		log.Error().
			Err(err).
			Str("key", key).
			Dur("expiration", expiration).
			Msg("Redis SET operation failed")
		return err
	}
	return nil
}

// Get retrieves a value from Redis
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("key", key).
			Msg("Redis GET operation failed")
		return "", err
	}
	return val, nil
}

// Delete removes a key from Redis
func (s *Service) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}

// Ping checks if Redis is accessible
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Service) Close() error {
	return s.client.Close()
}

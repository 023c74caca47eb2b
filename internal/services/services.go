package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/gabrieldfa/tia/internal/config"
	"github.com/gabrieldfa/tia/internal/connections"
	"github.com/gabrieldfa/tia/internal/infrastructure/openai"
	"github.com/gabrieldfa/tia/internal/infrastructure/redis"
	"github.com/gabrieldfa/tia/internal/services/assistant"
	"github.com/gabrieldfa/tia/internal/services/session"
	"github.com/rs/zerolog/log"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex
)

type Services struct {
	assistantService  *assistant.Service
	connectionManager *connections.Manager
	openAIService     *openai.Service
	redisService      *redis.Service
	sessionService    *session.Service
}

// InitializeServices initializes all required services
func InitializeServices(ctx context.Context) (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	// Initialize Redis service (optional)
	redisService := redis.NewService()
	log.Info().Bool("enabled", redisService != nil).Msg("Initializing Redis service")

	// Initialize session service with optional Redis
	sessionService := session.NewService(redisService)
	log.Info().Msg("Initializing session service")

	cfg := config.LoadAssistantConfig()
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Assistant configuration is incomplete - service is required for core functionality")
		return nil, fmt.Errorf("invalid assistant configuration: %w", err)
	}

	// Initialize OpenAI service (required)
	openAIService, err := openai.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI service: %w", err)
	}

	// Initialize assistant service (required)
	assistantService, err := assistant.NewService(ctx, openAIService.GetClient(), cfg.AssistantID,
		assistant.WithPoller(assistant.NewPoller(cfg.PollInterval, cfg.MaxWait)))
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize assistant service - required for message processing")
		return nil, fmt.Errorf("failed to initialize assistant service: %w", err)
	}
	log.Info().Str("assistant_id", cfg.AssistantID).Msg("Initializing assistant service")

	connectionManager := connections.NewManager(connections.DefaultTimeouts)

	log.Info().Msg("All services initialized successfully")

	return &Services{
		assistantService:  assistantService,
		connectionManager: connectionManager,
		openAIService:     openAIService,
		redisService:      redisService,
		sessionService:    sessionService,
	}, nil
}

// GetAssistantService returns the assistant service
func (s *Services) GetAssistantService() *assistant.Service {
	return s.assistantService
}

// GetConnectionManager returns the websocket connection manager
func (s *Services) GetConnectionManager() *connections.Manager {
	return s.connectionManager
}

// GetSessionService returns the session service
func (s *Services) GetSessionService() *session.Service {
	return s.sessionService
}

// GetRedisService returns the Redis service, nil when Redis is not configured
func (s *Services) GetRedisService() *redis.Service {
	return s.redisService
}

// Close releases the Redis connection if one was opened
func (s *Services) Close() error {
	if s.redisService == nil {
		return nil
	}
	return s.redisService.Close()
}

package openai

import (
	"sync"

	"github.com/gabrieldfa/tia/internal/config"
	"github.com/gabrieldfa/tia/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

type Service struct {
	mu     sync.RWMutex
	client *openai.Client
}

// NewService builds the OpenAI client from cfg. A missing credential fails
// here, before any request is made.
func NewService(cfg config.AssistantConfig) (*Service, error) {
	logger.Info(logger.SERVICE, "Initialising OpenAI service")

	if cfg.APIKey == "" {
		logger.Warn(logger.SERVICE, "OpenAI service not configured - OPENAI_API_KEY missing")
		return nil, config.ErrMissingCredential
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Service{
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

func (s *Service) GetClient() *openai.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

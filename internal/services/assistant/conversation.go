package assistant

import (
	"context"
	"fmt"

	"github.com/gabrieldfa/tia/internal/config"
	openaiinfra "github.com/gabrieldfa/tia/internal/infrastructure/openai"
	"github.com/sashabaranov/go-openai"
)

// Conversation is a single process-wide thread with the assistant: the client
// handle, the assistant descriptor and the thread, created together.
type Conversation struct {
	client  *openai.Client
	service *Service
	thread  openai.Thread
}

// Initialize validates cfg, connects to the service, loads the assistant and
// starts a new thread. Configuration errors are returned before any request
// is made, and no partial Conversation is ever returned.
func Initialize(ctx context.Context, cfg config.AssistantConfig) (*Conversation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid assistant configuration: %w", err)
	}

	openAIService, err := openaiinfra.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise OpenAI client: %w", err)
	}
	client := openAIService.GetClient()

	service, err := NewService(ctx, client, cfg.AssistantID, WithPoller(NewPoller(cfg.PollInterval, cfg.MaxWait)))
	if err != nil {
		return nil, err
	}

	thread, err := service.NewThread(ctx)
	if err != nil {
		return nil, err
	}

	return &Conversation{
		client:  client,
		service: service,
		thread:  thread,
	}, nil
}

func (c *Conversation) Client() *openai.Client {
	return c.client
}

func (c *Conversation) Assistant() openai.Assistant {
	return c.service.Assistant()
}

func (c *Conversation) Thread() openai.Thread {
	return c.thread
}

// Ask sends text on the conversation's thread and returns the reply
func (c *Conversation) Ask(ctx context.Context, text string) (string, error) {
	return c.service.Send(ctx, c.thread.ID, text)
}

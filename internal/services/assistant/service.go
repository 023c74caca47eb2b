package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabrieldfa/tia/internal/config"
	"github.com/gabrieldfa/tia/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

const listOrderAsc = "asc"

// Service sends questions to one pre-configured assistant. It holds no
// per-conversation state; callers own their thread IDs.
type Service struct {
	api       API
	assistant openai.Assistant
	poller    *Poller
}

type Option func(*Service)

// WithPoller replaces the default poller
func WithPoller(p *Poller) Option {
	return func(s *Service) {
		s.poller = p
	}
}

// NewService retrieves the assistant descriptor once; it is read-only afterwards.
func NewService(ctx context.Context, api API, assistantID string, opts ...Option) (*Service, error) {
	if assistantID == "" {
		return nil, config.ErrMissingAssistantID
	}

	assistant, err := api.RetrieveAssistant(ctx, assistantID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve assistant: %w", err)
	}

	s := &Service{
		api:       api,
		assistant: assistant,
		poller:    NewPoller(config.DefaultRunPollInterval, 0),
	}
	for _, opt := range opts {
		opt(s)
	}

	logger.Info(logger.ASSISTANT, "Assistant %s loaded (model %s)", assistant.ID, assistant.Model)
	return s, nil
}

// Assistant returns the descriptor fetched at startup
func (s *Service) Assistant() openai.Assistant {
	return s.assistant
}

// NewThread creates an empty conversation thread on the remote service
func (s *Service) NewThread(ctx context.Context) (openai.Thread, error) {
	thread, err := s.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return openai.Thread{}, fmt.Errorf("failed to create thread: %w", err)
	}

	logger.Debug(logger.ASSISTANT, "Created thread %s", thread.ID)
	return thread, nil
}

// Send appends text to the thread as a user message, runs the assistant and
// returns its reply. The reply is read only from messages created after the
// new user message.
//
// A run that ends in any status other than completed yields the extracted
// answer (usually FallbackAnswer) together with a *RunError.
func (s *Service) Send(ctx context.Context, threadID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}

	message, err := s.api.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}

	run, err := s.api.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID: s.assistant.ID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}

	run, err = s.poller.AwaitCompletion(ctx, s.api, threadID, run)
	if err != nil {
		return "", err
	}

	order := listOrderAsc
	after := message.ID
	messages, err := s.api.ListMessage(ctx, threadID, nil, &order, &after, nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to list messages: %w", err)
	}

	answer := ExtractAnswer(messages.Messages)

	if run.Status != openai.RunStatusCompleted {
		runErr := newRunError(run)
		logger.Warn(logger.ASSISTANT, "Thread %s: %v", threadID, runErr)
		return answer, runErr
	}

	if answer == FallbackAnswer {
		logger.Info(logger.ASSISTANT, "Thread %s: run %s completed without a text reply", threadID, run.ID)
	}

	return answer, nil
}

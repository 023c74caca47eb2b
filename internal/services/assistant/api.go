package assistant

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// RunRetriever fetches the current state of a run
type RunRetriever interface {
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
}

// API is the part of the Assistants API used by TIA. *openai.Client satisfies it.
type API interface {
	RunRetriever

	RetrieveAssistant(ctx context.Context, assistantID string) (openai.Assistant, error)
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
}

var _ API = (*openai.Client)(nil)

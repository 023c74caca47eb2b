package handlers

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Assistant is the part of the assistant service the HTTP handlers use
type Assistant interface {
	Assistant() openai.Assistant
	NewThread(ctx context.Context) (openai.Thread, error)
	Send(ctx context.Context, threadID, text string) (string, error)
}

func newThreadFunc(a Assistant) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		thread, err := a.NewThread(ctx)
		if err != nil {
			return "", err
		}
		return thread.ID, nil
	}
}

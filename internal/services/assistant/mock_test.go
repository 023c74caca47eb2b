package assistant

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/mock"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) RetrieveAssistant(ctx context.Context, assistantID string) (openai.Assistant, error) {
	args := m.Called(ctx, assistantID)
	return args.Get(0).(openai.Assistant), args.Error(1)
}

func (m *mockAPI) CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(openai.Thread), args.Error(1)
}

func (m *mockAPI) CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error) {
	args := m.Called(ctx, threadID, request)
	return args.Get(0).(openai.Message), args.Error(1)
}

func (m *mockAPI) CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error) {
	args := m.Called(ctx, threadID, request)
	return args.Get(0).(openai.Run), args.Error(1)
}

func (m *mockAPI) RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error) {
	args := m.Called(ctx, threadID, runID)
	return args.Get(0).(openai.Run), args.Error(1)
}

func (m *mockAPI) ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error) {
	args := m.Called(ctx, threadID, limit, order, after, before, runID)
	return args.Get(0).(openai.MessagesList), args.Error(1)
}

func textMessage(id, role, text string) openai.Message {
	return openai.Message{
		ID:   id,
		Role: role,
		Content: []openai.MessageContent{{
			Type: "text",
			Text: &openai.MessageText{Value: text},
		}},
	}
}

func stringPtr(want string) interface{} {
	return mock.MatchedBy(func(s *string) bool {
		return s != nil && *s == want
	})
}

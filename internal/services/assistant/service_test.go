package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gabrieldfa/tia/internal/config"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, api *mockAPI) *Service {
	t.Helper()

	api.On("RetrieveAssistant", mock.Anything, "asst_123").Return(openai.Assistant{ID: "asst_123", Model: openai.GPT4o}, nil).Once()

	svc, err := NewService(context.Background(), api, "asst_123", WithPoller(NewPoller(time.Millisecond, 0)))
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	t.Run("missing assistant id", func(t *testing.T) {
		api := &mockAPI{}

		svc, err := NewService(context.Background(), api, "")

		assert.Nil(t, svc)
		assert.ErrorIs(t, err, config.ErrMissingAssistantID)
		api.AssertNotCalled(t, "RetrieveAssistant", mock.Anything, mock.Anything)
	})

	t.Run("unknown assistant", func(t *testing.T) {
		api := &mockAPI{}
		api.On("RetrieveAssistant", mock.Anything, "asst_404").Return(openai.Assistant{}, errors.New("no assistant found"))

		svc, err := NewService(context.Background(), api, "asst_404")

		assert.Nil(t, svc)
		assert.ErrorContains(t, err, "failed to retrieve assistant")
	})

	t.Run("descriptor is kept", func(t *testing.T) {
		api := &mockAPI{}
		svc := newTestService(t, api)

		assert.Equal(t, "asst_123", svc.Assistant().ID)
	})
}

func TestServiceSend(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the reply created after the user message", func(t *testing.T) {
		api := &mockAPI{}
		svc := newTestService(t, api)

		api.On("CreateMessage", mock.Anything, "thread_1", openai.MessageRequest{Role: "user", Content: "Apa itu class?"}).
			Return(openai.Message{ID: "msg_1", Role: "user"}, nil).Once()
		api.On("CreateRun", mock.Anything, "thread_1", openai.RunRequest{AssistantID: "asst_123"}).
			Return(openai.Run{ID: "run_1", Status: openai.RunStatusQueued}, nil).Once()
		api.On("RetrieveRun", mock.Anything, "thread_1", "run_1").
			Return(openai.Run{ID: "run_1", Status: openai.RunStatusCompleted}, nil).Once()
		api.On("ListMessage", mock.Anything, "thread_1", mock.Anything, stringPtr("asc"), stringPtr("msg_1"), mock.Anything, mock.Anything).
			Return(openai.MessagesList{Messages: []openai.Message{textMessage("msg_2", "assistant", "Hello")}}, nil).Once()

		answer, err := svc.Send(ctx, "thread_1", "Apa itu class?")

		require.NoError(t, err)
		assert.Equal(t, "Hello", answer)
		api.AssertExpectations(t)
	})

	t.Run("no reply maps to fallback", func(t *testing.T) {
		api := &mockAPI{}
		svc := newTestService(t, api)

		api.On("CreateMessage", mock.Anything, "thread_1", mock.Anything).Return(openai.Message{ID: "msg_1"}, nil).Once()
		api.On("CreateRun", mock.Anything, "thread_1", mock.Anything).Return(openai.Run{ID: "run_1", Status: openai.RunStatusCompleted}, nil).Once()
		api.On("ListMessage", mock.Anything, "thread_1", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(openai.MessagesList{}, nil).Once()

		answer, err := svc.Send(ctx, "thread_1", "Siapa presiden pertama?")

		require.NoError(t, err)
		assert.Equal(t, FallbackAnswer, answer)
		api.AssertNotCalled(t, "RetrieveRun", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed run returns fallback and a run error", func(t *testing.T) {
		api := &mockAPI{}
		svc := newTestService(t, api)

		api.On("CreateMessage", mock.Anything, "thread_1", mock.Anything).Return(openai.Message{ID: "msg_1"}, nil).Once()
		api.On("CreateRun", mock.Anything, "thread_1", mock.Anything).Return(openai.Run{ID: "run_1", Status: openai.RunStatusQueued}, nil).Once()
		api.On("RetrieveRun", mock.Anything, "thread_1", "run_1").Return(openai.Run{
			ID:        "run_1",
			Status:    openai.RunStatusFailed,
			LastError: &openai.RunLastError{Code: openai.RunErrorRateLimitExceeded, Message: "quota"},
		}, nil).Once()
		api.On("ListMessage", mock.Anything, "thread_1", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(openai.MessagesList{}, nil).Once()

		answer, err := svc.Send(ctx, "thread_1", "Apa itu inheritance?")

		assert.Equal(t, FallbackAnswer, answer)
		assert.ErrorIs(t, err, ErrRunNotCompleted)

		var runErr *RunError
		require.ErrorAs(t, err, &runErr)
		assert.Equal(t, openai.RunStatusFailed, runErr.Status)
		assert.Equal(t, "rate_limit_exceeded", runErr.Code)
	})

	t.Run("message creation failure stops the round trip", func(t *testing.T) {
		api := &mockAPI{}
		svc := newTestService(t, api)

		createErr := errors.New("network down")
		api.On("CreateMessage", mock.Anything, "thread_1", mock.Anything).Return(openai.Message{}, createErr).Once()

		answer, err := svc.Send(ctx, "thread_1", "Apa itu object?")

		assert.Empty(t, answer)
		assert.ErrorIs(t, err, createErr)
		api.AssertNotCalled(t, "CreateRun", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("poll failure propagates", func(t *testing.T) {
		api := &mockAPI{}
		svc := newTestService(t, api)

		pollErr := errors.New("bad gateway")
		api.On("CreateMessage", mock.Anything, "thread_1", mock.Anything).Return(openai.Message{ID: "msg_1"}, nil).Once()
		api.On("CreateRun", mock.Anything, "thread_1", mock.Anything).Return(openai.Run{ID: "run_1", Status: openai.RunStatusQueued}, nil).Once()
		api.On("RetrieveRun", mock.Anything, "thread_1", "run_1").Return(openai.Run{}, pollErr).Once()

		_, err := svc.Send(ctx, "thread_1", "Apa itu polymorphism?")

		assert.ErrorIs(t, err, pollErr)
		api.AssertNotCalled(t, "ListMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty text is rejected without remote calls", func(t *testing.T) {
		api := &mockAPI{}
		svc := newTestService(t, api)

		_, err := svc.Send(ctx, "thread_1", "   ")

		assert.ErrorIs(t, err, ErrEmptyMessage)
		api.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestServiceNewThread(t *testing.T) {
	api := &mockAPI{}
	svc := newTestService(t, api)

	api.On("CreateThread", mock.Anything, openai.ThreadRequest{}).Return(openai.Thread{ID: "thread_9"}, nil).Once()

	thread, err := svc.NewThread(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "thread_9", thread.ID)
}

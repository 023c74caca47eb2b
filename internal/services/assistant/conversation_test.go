package assistant

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gabrieldfa/tia/internal/config"
	"github.com/gabrieldfa/tia/internal/testutil/fakeopenai"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(server *fakeopenai.Server) config.AssistantConfig {
	return config.AssistantConfig{
		APIKey:       "sk-test",
		AssistantID:  "asst_123",
		BaseURL:      server.BaseURL(),
		PollInterval: time.Millisecond,
	}
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("missing credential fails before any request", func(t *testing.T) {
		server := fakeopenai.New("asst_123", "Hello")
		defer server.Close()

		cfg := testConfig(server)
		cfg.APIKey = ""

		conv, err := Initialize(ctx, cfg)

		assert.Nil(t, conv)
		assert.ErrorIs(t, err, config.ErrMissingCredential)
		assert.Zero(t, server.Requests())
	})

	t.Run("missing assistant id fails before any request", func(t *testing.T) {
		server := fakeopenai.New("asst_123", "Hello")
		defer server.Close()

		cfg := testConfig(server)
		cfg.AssistantID = ""

		conv, err := Initialize(ctx, cfg)

		assert.Nil(t, conv)
		assert.ErrorIs(t, err, config.ErrMissingAssistantID)
		assert.Zero(t, server.Requests())
	})

	t.Run("unknown assistant is fatal", func(t *testing.T) {
		server := fakeopenai.New("asst_other", "Hello")
		defer server.Close()

		conv, err := Initialize(ctx, testConfig(server))

		assert.Nil(t, conv)
		assert.Error(t, err)
		assert.Zero(t, server.Count(fakeopenai.OpCreateThread))
	})

	t.Run("creates client, assistant and thread", func(t *testing.T) {
		server := fakeopenai.New("asst_123", "Hello")
		defer server.Close()

		conv, err := Initialize(ctx, testConfig(server))
		require.NoError(t, err)

		assert.NotNil(t, conv.Client())
		assert.Equal(t, "asst_123", conv.Assistant().ID)
		assert.NotEmpty(t, conv.Thread().ID)
		assert.Equal(t, 1, server.Count(fakeopenai.OpRetrieveAssistant))
		assert.Equal(t, 1, server.Count(fakeopenai.OpCreateThread))
	})
}

func TestConversationAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip over the wire", func(t *testing.T) {
		server := fakeopenai.New("asst_123", "Class adalah cetak biru dari object.")
		defer server.Close()
		server.SetRunStatuses(openai.RunStatusQueued, openai.RunStatusInProgress, openai.RunStatusCompleted)

		conv, err := Initialize(ctx, testConfig(server))
		require.NoError(t, err)

		answer, err := conv.Ask(ctx, "Apa itu class?")

		require.NoError(t, err)
		assert.Equal(t, "Class adalah cetak biru dari object.", answer)
		assert.Equal(t, 3, server.Count(fakeopenai.OpRetrieveRun))

		messages := server.Messages(conv.Thread().ID)
		require.Len(t, messages, 2)
		assert.Equal(t, "user", messages[0].Role)
		assert.Equal(t, "Apa itu class?", messages[0].Content[0].Text.Value)
	})

	t.Run("second question reads only its own reply", func(t *testing.T) {
		server := fakeopenai.New("asst_123", "")
		defer server.Close()
		server.SetAnswers("Jawaban pertama", "Jawaban kedua")

		conv, err := Initialize(ctx, testConfig(server))
		require.NoError(t, err)

		first, err := conv.Ask(ctx, "Pertanyaan pertama")
		require.NoError(t, err)
		second, err := conv.Ask(ctx, "Pertanyaan kedua")
		require.NoError(t, err)

		assert.Equal(t, "Jawaban pertama", first)
		assert.Equal(t, "Jawaban kedua", second)
		assert.Len(t, server.Messages(conv.Thread().ID), 4)
		assert.Equal(t, 1, server.Count(fakeopenai.OpCreateThread))
	})

	t.Run("earlier replies are never reused", func(t *testing.T) {
		server := fakeopenai.New("asst_123", "")
		defer server.Close()
		server.SetAnswers("Jawaban pertama", "")

		conv, err := Initialize(ctx, testConfig(server))
		require.NoError(t, err)

		_, err = conv.Ask(ctx, "Pertanyaan pertama")
		require.NoError(t, err)
		answer, err := conv.Ask(ctx, "Pertanyaan kedua")
		require.NoError(t, err)

		assert.Equal(t, FallbackAnswer, answer)
	})

	t.Run("no reply yields the fallback", func(t *testing.T) {
		server := fakeopenai.New("asst_123", "")
		defer server.Close()

		conv, err := Initialize(ctx, testConfig(server))
		require.NoError(t, err)

		answer, err := conv.Ask(ctx, "Apa itu fotosintesis?")

		require.NoError(t, err)
		assert.Equal(t, FallbackAnswer, answer)
	})

	t.Run("remote failure propagates", func(t *testing.T) {
		server := fakeopenai.New("asst_123", "Hello")
		defer server.Close()

		conv, err := Initialize(ctx, testConfig(server))
		require.NoError(t, err)
		server.FailOn(fakeopenai.OpCreateRun, http.StatusInternalServerError)

		_, err = conv.Ask(ctx, "Apa itu interface?")

		var apiErr *openai.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPStatusCode)
		assert.Zero(t, server.Count(fakeopenai.OpListMessages))
	})
}

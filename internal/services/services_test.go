package services

import (
	"context"
	"testing"

	"github.com/gabrieldfa/tia/internal/config"
	"github.com/gabrieldfa/tia/internal/testutil/fakeopenai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeServices(t *testing.T) {
	t.Run("missing credential", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		t.Setenv("ASSISTANT_ID", "asst_123")
		t.Setenv("REDIS_URL", "")

		svcs, err := InitializeServices(context.Background())

		assert.Nil(t, svcs)
		assert.ErrorIs(t, err, config.ErrMissingCredential)
	})

	t.Run("missing assistant id", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("ASSISTANT_ID", "")
		t.Setenv("REDIS_URL", "")

		svcs, err := InitializeServices(context.Background())

		assert.Nil(t, svcs)
		assert.ErrorIs(t, err, config.ErrMissingAssistantID)
	})

	t.Run("wires services without redis", func(t *testing.T) {
		fake := fakeopenai.New("asst_123", "Jawaban")
		defer fake.Close()

		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("ASSISTANT_ID", "asst_123")
		t.Setenv("OPENAI_BASE_URL", fake.BaseURL())
		t.Setenv("REDIS_URL", "")

		svcs, err := InitializeServices(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "asst_123", svcs.GetAssistantService().Assistant().ID)
		assert.NotNil(t, svcs.GetSessionService())
		assert.NotNil(t, svcs.GetConnectionManager())
		assert.Nil(t, svcs.GetRedisService())
		assert.NoError(t, svcs.Close())
		assert.Equal(t, 1, fake.Count(fakeopenai.OpRetrieveAssistant))
	})
}

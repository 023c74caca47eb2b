package config

import (
	"errors"
	"time"
)

var (
	ErrMissingCredential  = errors.New("OPENAI_API_KEY environment variable not set")
	ErrMissingAssistantID = errors.New("ASSISTANT_ID environment variable not set")
)

const (
	DefaultRunPollInterval = 500 * time.Millisecond
)

// AssistantConfig holds everything needed to talk to the hosted assistant.
// APIKey is a secret and must never be logged.
type AssistantConfig struct {
	APIKey       string
	AssistantID  string
	BaseURL      string
	PollInterval time.Duration
	// MaxWait bounds a single run; zero waits indefinitely.
	MaxWait time.Duration
}

// Validate reports a configuration error for a missing credential or
// assistant identifier.
func (c AssistantConfig) Validate() error {
	if c.APIKey == "" {
		return ErrMissingCredential
	}
	if c.AssistantID == "" {
		return ErrMissingAssistantID
	}
	return nil
}

// GetOpenAIKey returns the current OpenAI key
func GetOpenAIKey() string {
	return GetEnvOrDefault("OPENAI_API_KEY", "")
}

// GetAssistantID returns the identifier of the pre-configured assistant
func GetAssistantID() string {
	return GetEnvOrDefault("ASSISTANT_ID", "")
}

// GetOpenAIBaseURL returns an override for the API base URL, empty for the default
func GetOpenAIBaseURL() string {
	return GetEnvOrDefault("OPENAI_BASE_URL", "")
}

func GetRunPollInterval() time.Duration {
	return parseEnvDuration("RUN_POLL_INTERVAL", DefaultRunPollInterval)
}

func GetRunMaxWait() time.Duration {
	return parseEnvDuration("RUN_MAX_WAIT", 0)
}

// LoadAssistantConfig reads the assistant configuration from the environment.
// It does not validate; call Validate before use.
func LoadAssistantConfig() AssistantConfig {
	return AssistantConfig{
		APIKey:       GetOpenAIKey(),
		AssistantID:  GetAssistantID(),
		BaseURL:      GetOpenAIBaseURL(),
		PollInterval: GetRunPollInterval(),
		MaxWait:      GetRunMaxWait(),
	}
}

package websocket

// UserMessage represents an incoming question from the client
type UserMessage struct {
	Content   string `json:"content"`
	MessageID string `json:"message_id,omitempty"`
}

// AssistantResponse represents a reply sent back to the client
type AssistantResponse struct {
	RequestID string `json:"request_id"`
	MessageID string `json:"message_id,omitempty"`
	Content   string `json:"content"`
	Status    string `json:"status"` // "streaming", "complete", or "error"
	RunStatus string `json:"run_status,omitempty"`
}

// ResponseStatus defines the possible states of an assistant response
const (
	StatusStreaming = "streaming"
	StatusComplete  = "complete"
	StatusError     = "error"
)

const ConnectedMessage = "Connected"

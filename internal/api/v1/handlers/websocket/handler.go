package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gabrieldfa/tia/internal/connections"
	"github.com/gabrieldfa/tia/internal/services/assistant"
	"github.com/gabrieldfa/tia/internal/shell"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// Assistant is the part of the assistant service a connection needs
type Assistant interface {
	NewThread(ctx context.Context) (openai.Thread, error)
	Send(ctx context.Context, threadID, text string) (string, error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket answers questions over a websocket. Each connection talks on
// its own thread, created when the first question arrives.
func HandleWebSocket(assistantService Assistant, manager *connections.Manager, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("client_ip", r.RemoteAddr).Msg("Could not upgrade connection")
		return
	}

	manager.AddConnection(conn)
	defer func() {
		manager.RemoveConnection(conn)
		conn.Close()
	}()

	timeouts := manager.GetTimeouts()

	conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(timeouts.PingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				deadline := time.Now().Add(timeouts.WriteWait)
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, deadline); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	conn.SetWriteDeadline(time.Now().Add(timeouts.WriteWait))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ConnectedMessage)); err != nil {
		return
	}

	log.Info().Str("client_ip", r.RemoteAddr).Msg("WebSocket connection opened")

	for {
		conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected WebSocket closure")
			}
			break
		}

		if err := handleMessage(r.Context(), assistantService, manager, conn, payload); err != nil {
			log.Warn().Err(err).Msg("Failed to write WebSocket response")
			break
		}
	}

	log.Info().Str("client_ip", r.RemoteAddr).Msg("WebSocket connection closed")
}

// handleMessage answers one frame; the returned error is a write failure
func handleMessage(ctx context.Context, assistantService Assistant, manager *connections.Manager, conn *websocket.Conn, payload []byte) error {
	requestID := uuid.New().String()
	timeouts := manager.GetTimeouts()

	reply := func(resp AssistantResponse) error {
		resp.RequestID = requestID
		conn.SetWriteDeadline(time.Now().Add(timeouts.WriteWait))
		return conn.WriteJSON(resp)
	}

	var msg UserMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("Client sent malformed message")
		return reply(AssistantResponse{Content: "Invalid message format", Status: StatusError})
	}

	if strings.TrimSpace(msg.Content) == "" {
		return reply(AssistantResponse{MessageID: msg.MessageID, Content: "Message content is required", Status: StatusError})
	}

	if err := reply(AssistantResponse{MessageID: msg.MessageID, Status: StatusStreaming}); err != nil {
		return err
	}

	threadID, bound := manager.ThreadFor(conn)
	if !bound {
		thread, err := assistantService.NewThread(ctx)
		if err != nil {
			log.Error().Err(err).Str("request_id", requestID).Msg("Failed to create thread for connection")
			return reply(AssistantResponse{MessageID: msg.MessageID, Content: shell.ErrorText, Status: StatusError})
		}
		threadID = thread.ID
		manager.BindThread(conn, threadID)
	}

	answer, err := assistantService.Send(ctx, threadID, msg.Content)

	var runErr *assistant.RunError
	switch {
	case err == nil:
		return reply(AssistantResponse{
			MessageID: msg.MessageID,
			Content:   answer,
			Status:    StatusComplete,
			RunStatus: string(openai.RunStatusCompleted),
		})
	case errors.As(err, &runErr):
		log.Warn().Err(err).Str("request_id", requestID).Str("thread_id", threadID).Msg("Run did not complete")
		return reply(AssistantResponse{
			MessageID: msg.MessageID,
			Content:   answer,
			Status:    StatusComplete,
			RunStatus: string(runErr.Status),
		})
	default:
		log.Error().Err(err).Str("request_id", requestID).Str("thread_id", threadID).Msg("Failed to get answer")
		return reply(AssistantResponse{MessageID: msg.MessageID, Content: shell.ErrorText, Status: StatusError})
	}
}

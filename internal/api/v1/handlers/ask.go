package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gabrieldfa/tia/internal/services/assistant"
	"github.com/gabrieldfa/tia/internal/services/session"
	"github.com/gabrieldfa/tia/pkg/httpext"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// validate caches struct info, so a single instance is shared
var validate = validator.New(validator.WithRequiredStructEnabled())

type AskRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type AskResponse struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	Answer   string `json:"answer"`
	Status   string `json:"status"`
}

// HandleAsk answers one question on the caller's session thread
func HandleAsk(assistantService Assistant, sessionService *session.Service, w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("Client sent malformed JSON request")
		httpext.JsonErrorWithDetails(w, http.StatusBadRequest, httpext.ErrorResponse{
			Error:     "Invalid request format",
			RequestID: requestID,
		})
		return
	}

	if err := validate.Struct(req); err != nil || strings.TrimSpace(req.Message) == "" {
		log.Warn().Err(err).Str("request_id", requestID).Msg("Request validation failed")
		httpext.JsonErrorWithDetails(w, http.StatusBadRequest, httpext.ErrorResponse{
			Error:            "Invalid request",
			ErrorDescription: "message must be non-empty and at most 4000 characters",
			RequestID:        requestID,
		})
		return
	}

	log.Info().
		Str("request_id", requestID).
		Str("client_ip", r.RemoteAddr).
		Int("message_length", len(req.Message)).
		Msg("Received ask request")

	threadID, err := sessionService.ResolveThread(w, r, newThreadFunc(assistantService))
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Failed to resolve conversation thread")
		httpext.JsonErrorWithDetails(w, http.StatusBadGateway, httpext.ErrorResponse{
			Error:     "Failed to start a conversation",
			RequestID: requestID,
		})
		return
	}

	answer, err := assistantService.Send(r.Context(), threadID, req.Message)
	status := string(openai.RunStatusCompleted)

	var runErr *assistant.RunError
	switch {
	case err == nil:
	case errors.As(err, &runErr):
		log.Warn().Err(err).Str("request_id", requestID).Str("thread_id", threadID).Msg("Run did not complete")
		status = string(runErr.Status)
	case errors.Is(err, assistant.ErrRunTimeout):
		log.Error().Err(err).Str("request_id", requestID).Str("thread_id", threadID).Msg("Run timed out")
		httpext.JsonErrorWithDetails(w, http.StatusGatewayTimeout, httpext.ErrorResponse{
			Error:     "The assistant took too long to answer",
			RequestID: requestID,
		})
		return
	default:
		log.Error().Err(err).Str("request_id", requestID).Str("thread_id", threadID).Msg("Failed to get answer")
		httpext.JsonErrorWithDetails(w, http.StatusBadGateway, httpext.ErrorResponse{
			Error:     "Failed to get an answer from the assistant",
			RequestID: requestID,
		})
		return
	}

	httpext.JsonResponse(w, http.StatusOK, AskResponse{
		ID:       requestID,
		ThreadID: threadID,
		Answer:   answer,
		Status:   status,
	})

	log.Info().
		Str("request_id", requestID).
		Str("thread_id", threadID).
		Str("status", status).
		Msg("Ask request processed")
}

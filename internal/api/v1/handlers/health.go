package handlers

import (
	"net/http"

	"github.com/gabrieldfa/tia/internal/connections"
	"github.com/gabrieldfa/tia/pkg/httpext"
)

type HealthResponse struct {
	Status            string `json:"status"`
	AssistantID       string `json:"assistant_id"`
	ActiveConnections int    `json:"active_connections"`
}

func HandleHealth(assistantService Assistant, manager *connections.Manager, w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, http.StatusOK, HealthResponse{
		Status:            "ok",
		AssistantID:       assistantService.Assistant().ID,
		ActiveConnections: manager.GetConnectionCount(),
	})
}

package handlers

import (
	"net/http"

	"github.com/gabrieldfa/tia/internal/api/v1/handlers/websocket"
	"github.com/gabrieldfa/tia/internal/connections"
	"github.com/gabrieldfa/tia/internal/services/session"
	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the chat page, the v1 API and the health check
func RegisterRoutes(router *mux.Router, assistantService Assistant, sessionService *session.Service, manager *connections.Manager) {
	// Web shell
	router.HandleFunc("/", HandlePage).Methods("GET")
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		HandleSubmit(assistantService, sessionService, w, r)
	}).Methods("POST")
	router.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) {
		HandleReset(sessionService, w, r)
	}).Methods("POST")

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		HandleHealth(assistantService, manager, w, r)
	}).Methods("GET")

	// v1 routes
	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/ask", func(w http.ResponseWriter, r *http.Request) {
		HandleAsk(assistantService, sessionService, w, r)
	}).Methods("POST")
	v1.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.HandleWebSocket(assistantService, manager, w, r)
	}).Methods("GET")
}

package httpext

import (
	"encoding/json"
	"net/http"

	"github.com/gabrieldfa/tia/pkg/logger"
)

// ErrorResponse is the JSON body of every API error
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	RequestID        string `json:"request_id,omitempty"`
}

// JsonError writes a JSON error response with the specified status code
func JsonError(w http.ResponseWriter, message string, code int) {
	JsonErrorWithDetails(w, code, ErrorResponse{Error: message})
}

// JsonErrorWithDetails writes an ErrorResponse with optional description and request ID
func JsonErrorWithDetails(w http.ResponseWriter, code int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error(logger.HANDLER, "Failed to encode error response: %v", err)
		return
	}
}

// JsonResponse writes v as a JSON body with the given status code
func JsonResponse(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(logger.HANDLER, "Failed to encode response: %v", err)
	}
}

// Package httputil holds the shared JSON response helpers used by every
// handler.
package httputil

import (
	"encoding/json"
	"log"
	"net/http"

	"agencydesk-backend/internal/models"
)

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already out; nothing left to do but log.
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// RespondError writes a JSON error body with the given status code and message.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{Error: message})
}

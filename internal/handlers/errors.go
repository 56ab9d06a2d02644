package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// ErrMessageUnauthorized is the body for 401 responses, both for missing sessions
// and for sessions that no longer resolve to a user.
const ErrMessageUnauthorized = "Unauthorized"

// ErrorResponse defines the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

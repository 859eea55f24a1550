// Package respond holds the JSON response helpers shared by the
// handler packages.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// ErrorDetails writes an error with the underlying cause in a details
// field, for the generic 500 shape.
func ErrorDetails(w http.ResponseWriter, status int, msg, details string) {
	JSON(w, status, errorResponse{Error: msg, Details: details})
}

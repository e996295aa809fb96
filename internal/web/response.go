package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error categories surfaced to the calculator page.
const (
	CategoryValidationError = "VALIDATION_ERROR"
	CategoryNotFound        = "NOT_FOUND"
	CategoryConflict        = "CONFLICT"
	CategoryInternalError   = "INTERNAL_ERROR"
)

// Error is the JSON error payload.
type Error struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

// CollectionResponse wraps list results.
type CollectionResponse struct {
	Results []any `json:"results"`
}

// WriteJSON marshals v as JSON and writes it to w with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// WriteError writes an error payload with the given status and category.
func WriteError(w http.ResponseWriter, status int, category, message string) {
	WriteJSON(w, status, &Error{
		Status:   "error",
		Message:  message,
		Category: category,
	})
}

// Package render writes JSON responses for the API handlers.
package render

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/invoice-funding-marketplace/pkg/api"
	"github.com/chris/invoice-funding-marketplace/pkg/mapping"
	"github.com/chris/invoice-funding-marketplace/pkg/middleware"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Error maps err to a status code and writes the API error body.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, body := mapping.ToApiError(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "request_id", middleware.GetRequestID(r.Context()), "path", r.URL.Path, "status", status, "error", err)
	}
	JSON(w, status, body)
}

// DecodeBody decodes the JSON request body into dst, writing a 400 on failure.
func DecodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		JSON(w, http.StatusBadRequest, &api.Error{
			Code:    "invalid_body",
			Message: fmt.Sprintf("Invalid request body: %v", err),
		})
		return false
	}
	return true
}

package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/syllatech-api/internal/domain"
	"github.com/diagnosis/syllatech-api/internal/tasks"
	"github.com/diagnosis/syllatech-api/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Common error codes
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteErrorWithDetails writes a structured JSON error response with additional details
func WriteErrorWithDetails(w http.ResponseWriter, statusCode int, message, code, details string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code, Details: details})
}

// FromError maps a service error onto a response. Unknown errors are logged
// and hidden behind a generic 500.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	msg := err.Error()
	var de *domain.DetailError
	if errors.As(err, &de) {
		msg = de.Detail
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		BadRequest(w, msg)
	case errors.Is(err, domain.ErrConflict):
		Conflict(w, msg)
	case errors.Is(err, domain.ErrUnauthorized):
		Unauthorized(w, "Unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, msg)
	case errors.Is(err, domain.ErrMailerUnavailable):
		Unavailable(w, "Email not configured")
	case errors.Is(err, tasks.ErrQueueFull), errors.Is(err, tasks.ErrQueueClosed):
		logger.WarnContext(r.Context(), "background queue rejected work", "error", err)
		Unavailable(w, "Server is busy, try again shortly")
	default:
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		InternalError(w, "Internal server error")
	}
}

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message, CodeConflict)
}

func Unavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, message, CodeServiceUnavailable)
}

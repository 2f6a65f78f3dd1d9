package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/osse101/rewardwheel/internal/domain"
	"github.com/osse101/rewardwheel/internal/logger"
	"github.com/osse101/rewardwheel/internal/session"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// BudgetExhaustedResponse tells the client when spinning becomes possible again
type BudgetExhaustedResponse struct {
	Error   string    `json:"error"`
	ResetAt time.Time `json:"reset_at"`
}

// Helper functions for responding

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	// Encode before writing headers so a failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and writes the matching status. An exhausted budget
// carries its reset time so clients can show a countdown.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	log := logger.FromContext(r.Context())

	var exhausted session.ErrBudgetExhausted
	if errors.As(err, &exhausted) {
		log.Info(opName+" rejected", "reason", err.Error())
		respondJSON(w, http.StatusConflict, BudgetExhaustedResponse{
			Error:   ErrMsgBudgetExhaustedError,
			ResetAt: exhausted.ResetAt,
		})
		return
	}

	statusCode, userMsg := mapServiceErrorToUserMessage(err)
	if statusCode >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Warn(opName+" failed", "error", err)
	}
	respondError(w, statusCode, userMsg)
}

// User-facing error messages for service errors
// These messages are derived from domain errors and provide helpful guidance to users
const (
	// Generic messages
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgAuthFailedError     = "Authentication failed. Please check your API key."
	ErrMsgUnavailableError    = "Server is temporarily unavailable. Please try again later."

	// Wheel messages
	ErrMsgBudgetExhaustedError    = "No spins remaining today"
	ErrMsgWheelMisconfiguredError = "The reward wheel is misconfigured"
	ErrMsgSessionClosedError      = "Session was closed, please try again"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
// This function converts internal service errors to appropriate HTTP status codes and messages
// that users can understand and act upon.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrBudgetExhausted):
		return http.StatusConflict, ErrMsgBudgetExhaustedError
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	case errors.Is(err, domain.ErrSessionClosed), errors.Is(err, domain.ErrSequencerClosed):
		return http.StatusConflict, ErrMsgSessionClosedError
	case errors.Is(err, domain.ErrInvalidConfiguration):
		return http.StatusInternalServerError, ErrMsgWheelMisconfiguredError
	}

	// Default to generic message so internals never reach the client
	return http.StatusInternalServerError, ErrMsgGenericServerError
}

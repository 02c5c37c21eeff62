package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/asandov/tripmarket/internal/domain"
)

// errorResponse is the uniform error body for all non-2xx responses.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON marshals v into the response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps a service error onto the HTTP status space via errors.Is.
// Unknown errors become an opaque 500; the detail goes to the log, not the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: errorDetail{Code: "not_found", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrInsufficientSeats):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: errorDetail{Code: "insufficient_seats", Message: "not enough seats available"},
		})
	case errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: errorDetail{Code: "invalid_transition", Message: "the booking is not in a state that allows this operation"},
		})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error: errorDetail{Code: "forbidden", Message: "you do not have permission to perform this operation"},
		})
	default:
		slog.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal_error", Message: "internal server error"},
		})
	}
}

// badRequest rejects a request before it reaches the service layer
// (missing body, malformed JSON, bad path parameter).
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error: errorDetail{Code: "validation_error", Message: message},
	})
}

// unauthorized rejects a request whose caller identity is missing.
// The auth middleware normally catches this first.
func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{
		Error: errorDetail{Code: "unauthorized", Message: "authentication required"},
	})
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel error.
// e.g. "service.BookingService.Create: validation error: travelers[0]: phone is required"
// → "travelers[0]: phone is required". When the sentinel carries no detail the
// sentinel text itself is returned.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []string{
		domain.ErrValidation.Error(),
		domain.ErrNotFound.Error(),
	} {
		if i := strings.LastIndex(msg, sentinel+": "); i >= 0 {
			return msg[i+len(sentinel)+2:]
		}
		if strings.HasSuffix(msg, sentinel) {
			return sentinel
		}
	}
	return msg
}

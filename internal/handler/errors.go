package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tripsmith/internal/domain"
)

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError writes a standard error body.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// validationMessage extracts the reason from a wrapped domain.ValidationError,
// e.g. "service.TripAssembler.Generate: validation error: duration must be at
// least one day" → "duration must be at least one day". A bare sentinel with
// no structured reason yields a generic message.
func validationMessage(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return "invalid input"
}

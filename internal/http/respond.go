package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pingpong-ladder/internal/ladder"
	"github.com/slack-go/slack"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := mapError(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "error", err, "status", status)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// mapError translates the ladder error taxonomy into HTTP status codes.
func mapError(err error) int {
	switch {
	case errors.Is(err, ladder.ErrValidation), errors.Is(err, ladder.ErrInvalidPin):
		return http.StatusBadRequest
	case errors.Is(err, ladder.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ladder.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ladder.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ladder.ErrNameTaken), errors.Is(err, ladder.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ladder.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"eventshell/pkg/platform/sentinel"
)

// WriteJSON encodes body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates sentinel errors into the shared error envelope.
// Internal errors never expose their message.
func WriteError(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	WriteJSON(w, status, map[string]string{"error": code})
}

// WriteBadRequest reports a client input problem with a description.
func WriteBadRequest(w http.ResponseWriter, description string) {
	WriteJSON(w, http.StatusBadRequest, map[string]string{
		"error":             "bad_request",
		"error_description": description,
	})
}

// StatusFor maps err to an HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, sentinel.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token"
	case errors.Is(err, sentinel.ErrInvalidState):
		return http.StatusConflict, "invalid_state"
	case errors.Is(err, sentinel.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, sentinel.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

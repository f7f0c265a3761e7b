// Package httputil holds the JSON response helpers and middleware shared by
// the API handlers.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Error codes returned in JSON error bodies. They match the WebSocket error
// frame codes so clients handle both channels uniformly.
const (
	CodeUnauthorized     = "Unauthorized"
	CodeUnknownPhone     = "UnknownPhone"
	CodeInvalidCode      = "InvalidCode"
	CodeEmptyMessage     = "EmptyMessage"
	CodeInvalidJSON      = "InvalidJSON"
	CodeMissingParameter = "MissingParameter"
	CodeMethodNotAllowed = "MethodNotAllowed"
	CodeInternal         = "Internal"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

// WriteError writes a JSON error body {"error": code}.
func WriteError(w http.ResponseWriter, status int, code string) {
	WriteJSON(w, status, map[string]string{"error": code})
}

// DecodeJSON decodes the request body into v. Unknown fields are ignored so
// older servers tolerate newer clients.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

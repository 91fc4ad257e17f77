// Package httputil centralizes JSON response writing so every handler uses
// the same envelopes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "github.com/BikashBaishnab/horibol-website-sub000/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope. Internal
// failures deliberately omit the description so store and channel details
// never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)
	status := dErrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	var e *dErrors.Error
	if status < http.StatusInternalServerError && errors.As(err, &e) && e.Message != "" {
		body["error_description"] = e.Message
	}
	WriteJSON(w, status, body)
}

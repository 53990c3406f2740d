// Package shared centralizes JSON response envelopes so every handler maps
// domain errors to HTTP the same way.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "fides/pkg/domain-errors"
)

// StatusResponse is the `{"status":"ok"}` envelope used by health and
// acknowledgement endpoints.
type StatusResponse struct {
	Status string `json:"status"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteOK writes the ok status envelope.
func WriteOK(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// WriteError translates a domain error into its HTTP envelope. Internal
// errors collapse to a bare code so nothing about the failure leaks.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	var de *dErrors.Error
	if code != dErrors.CodeInternal && errors.As(err, &de) {
		body["message"] = de.Message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}

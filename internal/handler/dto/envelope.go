// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"encoding/json"
	"net/http"
)

// Envelope wraps every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// WriteEnvelope writes env as JSON with the given status code.
func WriteEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// WriteError writes a failure envelope with a null data field.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteEnvelope(w, status, Envelope{Success: false, Message: message, Data: nil})
}

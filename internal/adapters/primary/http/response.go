package http

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire format every endpoint uses. Success responses carry
// Data; failures carry Error. The two are mutually exclusive.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody is the error half of the envelope.
type ErrorBody struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Fields  map[string][]string    `json:"fields,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// The header has already been sent; nothing left to do.
	}
}

// WriteSuccess writes a success envelope
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// WriteError writes a failure envelope with the given status
func WriteError(w http.ResponseWriter, status int, body ErrorBody) {
	WriteJSON(w, status, Envelope{Success: false, Error: &body})
}

package httpjson

import (
	"encoding/json"
	"net/http"
)

// Message is the body shape every gateway response shares.
type Message struct {
	Message string `json:"message"`
}

// Write encodes v as the JSON response body with the given status.
func Write(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if v == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(v)
}

// WriteMessage writes {"message": msg}.
func WriteMessage(w http.ResponseWriter, status int, msg string) error {
	return Write(w, status, Message{Message: msg})
}

// WriteError writes an HTTPError as {"message": ...} with its status code.
func WriteError(w http.ResponseWriter, err HTTPError) error {
	return WriteMessage(w, err.Code, err.Message)
}

// NotFound is a handler answering 404 {"message":"Not found"}.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	_ = WriteError(w, ErrNotFound)
}

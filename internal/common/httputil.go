package common

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// WriteJSON writes v as a JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// WriteError maps a taxonomy error onto an HTTP status and writes it.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, ErrTransient):
		status = http.StatusServiceUnavailable
	}

	WriteJSON(w, status, map[string]string{"error": err.Error()})
}

// DecodeJSON parses the request body into v.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return Wrap(ErrInvalid, "malformed request body")
	}
	return nil
}

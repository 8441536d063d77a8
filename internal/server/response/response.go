// Package response provides JSON response helpers for the boxcat API.
// Every body is pretty-printed and terminated with a single trailing
// newline, matching what the catalog's HTTP clients expect.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Marshal renders v as the canonical wire form: indented JSON plus a
// trailing newline.
func Marshal(v any) ([]byte, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}

// Raw writes an already-rendered JSON body with the given status code.
func Raw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Write errors mean the connection is gone; nothing useful to do.
	_, _ = w.Write(body)
}

// JSON renders v and writes it with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	body, err := Marshal(v)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	Raw(w, status, body)
}

// OK writes a successful response with 200 status.
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// NotFoundBox writes the 404 payload for an unknown box name.
func NotFoundBox(w http.ResponseWriter, name string) {
	JSON(w, http.StatusNotFound, map[string]string{
		"error": fmt.Sprintf("No box %s found.", name),
	})
}

// InternalError writes a 500 error response. The underlying error is logged
// by the caller, not exposed to the client.
func InternalError(w http.ResponseWriter) {
	JSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

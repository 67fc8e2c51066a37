// Package respond contains small helpers for the JSON envelope used by
// the ops API.
package respond

import (
	"encoding/json"
	"net/http"
)

type payload struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func write(w http.ResponseWriter, code int, p payload) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(p)
}

// OK writes a 200 response with the given data.
func OK(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, payload{Data: data})
}

// Fail writes an error response with the given status code.
func Fail(w http.ResponseWriter, code int, err error) {
	write(w, code, payload{Error: err.Error()})
}

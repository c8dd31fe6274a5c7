package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// EncodeJSON encodes data into JSON and writes it to the response writer.
func EncodeJSON(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}

// JSONError renders an error response as a JSON object with an error field.
func JSONError(w http.ResponseWriter, err error, status int) {
	if status >= http.StatusInternalServerError {
		slog.Default().Error("request failed", "status", status, "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

package debug

import (
	"encoding/json"
	"net/http"
)

type envelope map[string]any

// writeJSON sends v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// success sends 200 JSON: {"data": v}
func success(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, envelope{"data": v})
}

// notFound sends 404 JSON: {"message": message}
func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, envelope{"message": message})
}

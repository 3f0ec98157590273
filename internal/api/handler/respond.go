package handler

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeErrorDetails includes the diagnostic string outside production mode.
func writeErrorDetails(w http.ResponseWriter, status int, message, details string, production bool) {
	if production || details == "" {
		writeError(w, status, message)
		return
	}
	writeJSON(w, status, map[string]string{"error": message, "details": details})
}

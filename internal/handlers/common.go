package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// storeTimeout bounds every storage call made from a handler.
const storeTimeout = 10 * time.Second

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeServerError sends the generic plain-text 500 body. Detail stays in
// the server log.
func writeServerError(w http.ResponseWriter) {
	http.Error(w, "Server Error", http.StatusInternalServerError)
}

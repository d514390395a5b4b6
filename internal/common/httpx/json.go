package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON отдаёт JSON с нужным статусом
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes the {"message": ...} error body clients expect.
func WriteMessage(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, map[string]string{"message": msg})
}

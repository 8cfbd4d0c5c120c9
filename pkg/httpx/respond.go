package httpx

import (
	"encoding/json"
	"net/http"
)

// Every endpoint answers with the same envelope: {"success": bool,
// "message": optional string, plus endpoint-specific fields}.

func OK(w http.ResponseWriter, status int, data map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range data {
		body[k] = v
	}
	write(w, status, body)
}

func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]any{"success": false, "message": message})
}

func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func write(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

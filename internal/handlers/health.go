package handlers

import (
	"net/http"
	"time"
)

// Health answers locally with a fixed payload; it is never forwarded to
// the backend.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok": true,
		"ts": time.Now().UnixMilli(),
	})
}

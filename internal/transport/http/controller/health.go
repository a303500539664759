package controller

import "net/http"

// Health serves GET /api/health.
type Health struct{}

func (h Health) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(r, w, http.StatusOK, map[string]string{"status": "ok"})
}

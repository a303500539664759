package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arclight-news/newsline-core/internal/metrics"
)

// Metrics serves GET /api/news/:id/metrics.
type Metrics struct {
	Tracker *metrics.Tracker
}

func (m *Metrics) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	snapshot, breakdown, err := m.Tracker.Metrics(r.Context(), id)
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, map[string]any{
		"metrics":    snapshot,
		"engagement": breakdown,
	})
}

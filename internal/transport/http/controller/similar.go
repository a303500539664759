package controller

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arclight-news/newsline-core/internal/similarity"
)

// Similar serves GET /api/news/:id/similar.
type Similar struct {
	Engine *similarity.Engine
}

func (s *Similar) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	page, limit, err := parsePagination(r.URL.Query())
	if err != nil {
		writeError(r, w, err)
		return
	}

	result, err := s.Engine.Similar(r.Context(), id, limit, (page-1)*limit)
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, map[string]any{
		"data":       result.Articles,
		"cached":     result.Cached,
		"method":     result.Method,
		"cacheAge":   result.CacheAge.Seconds(),
		"pagination": buildPagination(r.URL.Path, r.URL.Query(), page, limit, result.Total),
	})
}

package controller

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/arclight-news/newsline-core/internal/cache"
	"github.com/arclight-news/newsline-core/internal/domain"
)

// Admin serves the /api/admin family: per-article similarity cache
// stats/clear, and the three bulk cache-clearing actions.
type Admin struct {
	Cache *cache.Layer
}

const similarNamespace = "similar"

func (a *Admin) SimilarStats(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	hits, misses, total, err := a.Cache.Stats(r.Context(), similarNamespace, id)
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, map[string]any{
		"articleId": id,
		"hits":      hits,
		"misses":    misses,
		"total":     total,
	})
}

func (a *Admin) ClearSimilarCache(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := a.Cache.Invalidate(r.Context(), similarNamespace, id); err != nil {
		writeError(r, w, err)
		return
	}
	if _, err := a.Cache.InvalidatePrefix(r.Context(), similarNamespace, id+":"); err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, map[string]string{"articleId": id, "status": "cleared"})
}

func (a *Admin) ClearAllExceptUser(w http.ResponseWriter, r *http.Request) {
	report, err := a.Cache.ClearAllExceptUser(r.Context())
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, report)
}

func (a *Admin) ClearSpecificTypes(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("types")
	if raw == "" {
		writeError(r, w, domain.ErrBadInput)
		return
	}
	types := strings.Split(raw, ",")

	report, err := a.Cache.ClearSpecificTypes(r.Context(), types)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, report)
}

func (a *Admin) CacheStatistics(w http.ResponseWriter, r *http.Request) {
	similarRate, err := a.Cache.HitRate(r.Context(), similarNamespace, "")
	if err != nil {
		writeError(r, w, err)
		return
	}
	feedRate, err := a.Cache.HitRate(r.Context(), "personalized", "")
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, map[string]any{
		"similarHitRate":       similarRate,
		"personalizedHitRate":  feedRate,
	})
}

package controller

import (
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/metrics"
	"github.com/arclight-news/newsline-core/internal/personalization"
)

// User serves the /api/user family: id generation, preferences,
// personalized feed/search, and view history.
type User struct {
	Engine  *personalization.Engine
	Prefs   *personalization.PreferencesStore
	Metrics *metrics.Tracker
}

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateID handles POST /api/user/generate-id.
func (u *User) GenerateID(w http.ResponseWriter, r *http.Request) {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = base36Chars[rand.IntN(len(base36Chars))]
	}
	userID := "user_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + string(suffix)
	writeJSON(r, w, http.StatusOK, map[string]string{"userId": userID})
}

type preferencesRequest struct {
	Topics []string `json:"topics"`
}

// GetPreferences handles GET /api/user/:userId/preferences.
func (u *User) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	prefs, ok, err := u.Prefs.Get(r.Context(), userID)
	if err != nil {
		writeError(r, w, err)
		return
	}
	if !ok {
		writeError(r, w, domain.ErrNotFound)
		return
	}

	writeJSON(r, w, http.StatusOK, prefs)
}

// SetPreferences handles POST and PUT /api/user/:userId/preferences.
func (u *User) SetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var body preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(r, w, domain.ErrBadInput)
		return
	}

	prefs, err := u.Engine.UpdatePreferences(r.Context(), userID, body.Topics)
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, prefs)
}

// PersonalizedFeed handles GET /api/user/:userId/personalized-news.
func (u *User) PersonalizedFeed(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	page, limit, err := parsePagination(r.URL.Query())
	if err != nil {
		writeError(r, w, err)
		return
	}

	result, err := u.Engine.PersonalizedFeed(r.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, map[string]any{
		"data":              result.Articles,
		"cached":            result.Cached,
		"fallback":          result.Fallback,
		"personalizedCount": result.PersonalizedCount,
		"pagination":        buildPagination(r.URL.Path, r.URL.Query(), page, limit, result.Total),
	})
}

// PersonalizedSearch handles GET /api/user/:userId/personalized-news/search.
func (u *User) PersonalizedSearch(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	page, limit, err := parsePagination(r.URL.Query())
	if err != nil {
		writeError(r, w, err)
		return
	}
	q := r.URL.Query().Get("q")
	sentiment := r.URL.Query().Get("sentiment")
	source := r.URL.Query().Get("source")

	result, err := u.Engine.PersonalizedSearch(r.Context(), userID, q, sentiment, source, limit, (page-1)*limit)
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, map[string]any{
		"data":       result.Articles,
		"cached":     result.Cached,
		"pagination": buildPagination(r.URL.Path, r.URL.Query(), page, limit, result.Total),
	})
}

// History handles GET /api/user/:userId/history.
func (u *User) History(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	entries, err := u.Metrics.UserHistory(r.Context(), userID)
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, map[string]any{"data": entries})
}

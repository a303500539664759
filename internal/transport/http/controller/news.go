package controller

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/arclight-news/newsline-core/internal/cache"
	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/index"
	"github.com/arclight-news/newsline-core/internal/metrics"
	"github.com/arclight-news/newsline-core/internal/personalization"
	"github.com/arclight-news/newsline-core/internal/readhistory"
)

// News serves the /api/news family of endpoints: list, get-by-id,
// topic/sentiment convenience filters, and trending.
type News struct {
	Gateway *index.Gateway
	Metrics *metrics.Tracker
	Reads   *readhistory.Tracker
	Cache   *cache.Layer
}

// List handles GET /api/news — newest-first, paginated.
func (n *News) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r.URL.Query())
	if err != nil {
		writeError(r, w, err)
		return
	}

	articles, total, err := n.Gateway.TextSearch(r.Context(), "", domain.TextSearchOptions{
		SortBy: "publishedAt",
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeList(r, w, articles, buildPagination(r.URL.Path, r.URL.Query(), page, limit, total))
}

// Get handles GET /api/news/:id — fetches the article, records a view,
// and (when a user is identified) marks it read and invalidates that
// user's personalized cache.
func (n *News) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	article, ok, err := n.Gateway.GetDoc(r.Context(), id)
	if err != nil {
		writeError(r, w, err)
		return
	}
	if !ok {
		writeError(r, w, domain.ErrNotFound)
		return
	}

	userID := requestUserID(r)
	meta := domain.ViewMeta{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
		Language:  r.Header.Get("Accept-Language"),
	}
	snapshot, err := n.Metrics.RecordView(r.Context(), id, userID, meta)
	if err != nil {
		writeError(r, w, err)
		return
	}

	if userID != "" {
		if markErr := n.Reads.MarkRead(r.Context(), userID, id); markErr != nil {
			domain.LoggerFromContext(r.Context()).Warn("marking article read failed", "userId", userID, "articleId", id, "error", markErr)
		}
		if _, invErr := n.Cache.InvalidatePrefix(r.Context(), personalization.FeedNamespace, userID+":"); invErr != nil {
			domain.LoggerFromContext(r.Context()).Warn("invalidating personalized feed cache failed", "userId", userID, "error", invErr)
		}
		if _, invErr := n.Cache.InvalidatePrefix(r.Context(), personalization.SearchNamespace, userID+":"); invErr != nil {
			domain.LoggerFromContext(r.Context()).Warn("invalidating personalized search cache failed", "userId", userID, "error", invErr)
		}
	}

	writeJSON(r, w, http.StatusOK, struct {
		domain.Article
		Metrics domain.ArticleMetrics `json:"metrics"`
	}{Article: article, Metrics: snapshot})
}

// ByTopic handles GET /api/news/topic/:topic — a full-text OR search
// across title/description/content/summary for the given topic word.
func (n *News) ByTopic(w http.ResponseWriter, r *http.Request) {
	topic := mux.Vars(r)["topic"]
	n.search(w, r, topic, "", "")
}

// BySentiment handles GET /api/news/sentiment/:sentiment.
func (n *News) BySentiment(w http.ResponseWriter, r *http.Request) {
	sentiment := mux.Vars(r)["sentiment"]
	n.search(w, r, "", sentiment, "")
}

func (n *News) search(w http.ResponseWriter, r *http.Request, topic, sentiment, source string) {
	page, limit, err := parsePagination(r.URL.Query())
	if err != nil {
		writeError(r, w, err)
		return
	}

	query := buildTagQuery(topic, sentiment, source)
	articles, total, err := n.Gateway.TextSearch(r.Context(), query, domain.TextSearchOptions{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeList(r, w, articles, buildPagination(r.URL.Path, r.URL.Query(), page, limit, total))
}

// Trending handles GET /api/news/trending?limit=&period=.
func (n *News) Trending(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if l, parseErr := strconv.Atoi(raw); parseErr == nil && l > 0 {
			limit = l
		}
	}
	period := r.URL.Query().Get("period")

	trending, err := n.Metrics.Trending(r.Context(), limit, period)
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, map[string]any{"data": trending})
}

// requestUserID extracts the caller's user ID from the x-user-id header
// or the userId query parameter, in that order.
func requestUserID(r *http.Request) string {
	if id := r.Header.Get("x-user-id"); id != "" {
		return id
	}
	return r.URL.Query().Get("userId")
}

// buildTagQuery assembles a mysqldoc query-language string from a bare
// search term plus sentiment/source tag filters.
func buildTagQuery(term, sentiment, source string) string {
	query := term
	if sentiment != "" {
		query += " sentiment:" + sentiment
	}
	if source != "" {
		query += " source:" + source
	}
	return query
}

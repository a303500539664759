// Package router assembles the HTTP surface described in the external
// interfaces section of the spec: a gorilla/mux router wiring each
// controller to its route, with permissive CORS and an optional
// opt-in auth0 guard over the admin surface (default off).
package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/arclight-news/newsline-core/internal/cache"
	"github.com/arclight-news/newsline-core/internal/index"
	"github.com/arclight-news/newsline-core/internal/metrics"
	"github.com/arclight-news/newsline-core/internal/personalization"
	"github.com/arclight-news/newsline-core/internal/readhistory"
	"github.com/arclight-news/newsline-core/internal/similarity"
	"github.com/arclight-news/newsline-core/internal/transport/http/controller"
)

// Dependencies composes every collaborator MakeRouter needs to build
// its controllers.
type Dependencies struct {
	Gateway         *index.Gateway
	Cache           *cache.Layer
	Metrics         *metrics.Tracker
	Reads           *readhistory.Tracker
	SimilarityEngine *similarity.Engine
	PersonalizationEngine *personalization.Engine
	Prefs           *personalization.PreferencesStore

	// AuthMiddleware validates Authorization headers and attaches a user
	// ID to the request context; nil disables auth entirely.
	AuthMiddleware func(http.Handler) http.Handler
	// RequireAdminAuth wraps the /api/admin/* routes in the
	// authenticated-only guard. Only meaningful when AuthMiddleware is set.
	RequireAdminAuth bool
}

// MakeRouter builds the full HTTP surface over deps.
func MakeRouter(deps Dependencies) http.Handler {
	authMiddleware := deps.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = passthroughMiddleware
	}

	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(requestIDMiddleware)
	r.Use(authMiddleware)

	news := &controller.News{Gateway: deps.Gateway, Metrics: deps.Metrics, Reads: deps.Reads, Cache: deps.Cache}
	search := &controller.Search{Gateway: deps.Gateway}
	similarCtrl := &controller.Similar{Engine: deps.SimilarityEngine}
	metricsCtrl := &controller.Metrics{Tracker: deps.Metrics}
	user := &controller.User{Engine: deps.PersonalizationEngine, Prefs: deps.Prefs, Metrics: deps.Metrics}
	metadata := &controller.Metadata{Gateway: deps.Gateway}
	admin := &controller.Admin{Cache: deps.Cache}
	health := controller.Health{}

	r.HandleFunc("/api/news", news.List).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/news/search", search.Search).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/news/trending", news.Trending).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/news/topic/{topic}", news.ByTopic).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/news/sentiment/{sentiment}", news.BySentiment).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/news/{id}/similar", similarCtrl.Get).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/news/{id}/metrics", metricsCtrl.Get).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/news/{id}", news.Get).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/api/user/generate-id", user.GenerateID).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/user/{userId}/preferences", user.SetPreferences).Methods(http.MethodPost, http.MethodPut, http.MethodOptions)
	r.HandleFunc("/api/user/{userId}/preferences", user.GetPreferences).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/user/{userId}/personalized-news/search", user.PersonalizedSearch).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/user/{userId}/personalized-news", user.PersonalizedFeed).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/user/{userId}/history", user.History).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/api/metadata/topics", metadata.Topics).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/metadata/sentiments", metadata.Sentiments).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/metadata/sources", metadata.Sources).Methods(http.MethodGet, http.MethodOptions)

	adminGuard := passthroughMiddleware
	if deps.RequireAdminAuth {
		adminGuard = requireAuthMiddleware
	}
	r.Handle("/api/admin/similar-stats/{id}", adminGuard(http.HandlerFunc(admin.SimilarStats))).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/api/admin/clear-similar-cache/{id}", adminGuard(http.HandlerFunc(admin.ClearSimilarCache))).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/api/admin/clear-all-cache-except-user", adminGuard(http.HandlerFunc(admin.ClearAllExceptUser))).Methods(http.MethodPost, http.MethodOptions)
	r.Handle("/api/admin/clear-specific-cache-types", adminGuard(http.HandlerFunc(admin.ClearSpecificTypes))).Methods(http.MethodPost, http.MethodOptions)
	r.Handle("/api/admin/cache-statistics", adminGuard(http.HandlerFunc(admin.CacheStatistics))).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/api/health", health.Get).Methods(http.MethodGet, http.MethodOptions)

	return r
}

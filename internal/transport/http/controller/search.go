package controller

import (
	"net/http"

	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/index"
)

// Search serves GET /api/news/search?q=&sentiment=&source=&topic=, the
// composite-search dispatch described by the spec: topic-only,
// search-fields-only, both (intersected), or neither.
type Search struct {
	Gateway *index.Gateway
}

// intersectCap bounds each subquery of a combined topic+search dispatch
// before the in-memory intersection by id.
const intersectCap = 1000

func (s *Search) Search(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r.URL.Query())
	if err != nil {
		writeError(r, w, err)
		return
	}

	q := r.URL.Query().Get("q")
	sentiment := r.URL.Query().Get("sentiment")
	source := r.URL.Query().Get("source")
	topic := r.URL.Query().Get("topic")

	var articles []domain.Article
	var total int

	switch {
	case topic != "" && (q != "" || sentiment != "" || source != ""):
		topicResults, _, topicErr := s.Gateway.TextSearch(r.Context(), topic, domain.TextSearchOptions{SortBy: "publishedAt", Limit: intersectCap})
		if topicErr != nil {
			writeError(r, w, topicErr)
			return
		}
		searchResults, _, searchErr := s.Gateway.TextSearch(r.Context(), buildTagQuery(q, sentiment, source), domain.TextSearchOptions{SortBy: "publishedAt", Limit: intersectCap})
		if searchErr != nil {
			writeError(r, w, searchErr)
			return
		}
		merged := intersectByID(topicResults, searchResults)
		total = len(merged)
		articles = paginateArticles(merged, page, limit)

	case topic != "":
		var searchErr error
		articles, total, searchErr = s.Gateway.TextSearch(r.Context(), topic, domain.TextSearchOptions{
			Limit: limit, Offset: (page - 1) * limit,
		})
		if searchErr != nil {
			writeError(r, w, searchErr)
			return
		}

	case q != "" || sentiment != "" || source != "":
		var searchErr error
		articles, total, searchErr = s.Gateway.TextSearch(r.Context(), buildTagQuery(q, sentiment, source), domain.TextSearchOptions{
			Limit: limit, Offset: (page - 1) * limit,
		})
		if searchErr != nil {
			writeError(r, w, searchErr)
			return
		}

	default:
		var searchErr error
		articles, total, searchErr = s.Gateway.TextSearch(r.Context(), "", domain.TextSearchOptions{
			SortBy: "publishedAt", Limit: limit, Offset: (page - 1) * limit,
		})
		if searchErr != nil {
			writeError(r, w, searchErr)
			return
		}
	}

	writeList(r, w, articles, buildPagination(r.URL.Path, r.URL.Query(), page, limit, total))
}

// intersectByID returns the articles present in both a and b (by ID),
// preserving a's ordering.
func intersectByID(a, b []domain.Article) []domain.Article {
	inB := make(map[string]struct{}, len(b))
	for _, article := range b {
		inB[article.ID] = struct{}{}
	}
	merged := make([]domain.Article, 0, len(a))
	for _, article := range a {
		if _, ok := inB[article.ID]; ok {
			merged = append(merged, article)
		}
	}
	return merged
}

func paginateArticles(articles []domain.Article, page, limit int) []domain.Article {
	offset := (page - 1) * limit
	if offset >= len(articles) {
		return []domain.Article{}
	}
	end := offset + limit
	if end > len(articles) {
		end = len(articles)
	}
	return articles[offset:end]
}

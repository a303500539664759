package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclight-news/newsline-core/internal/cache"
	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/index"
	"github.com/arclight-news/newsline-core/internal/metrics"
	"github.com/arclight-news/newsline-core/internal/readhistory"
	"github.com/arclight-news/newsline-core/internal/store"
)

// fakeDocumentStore is a hand-written in-memory index.DocumentStore,
// standing in for mysqldoc.Store the way the teacher's mockery-generated
// mocks stand in for its datasource interfaces.
type fakeDocumentStore struct {
	byID map[string]domain.Article
}

func newFakeDocumentStore(articles ...domain.Article) *fakeDocumentStore {
	f := &fakeDocumentStore{byID: make(map[string]domain.Article)}
	for _, a := range articles {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeDocumentStore) GetDoc(_ context.Context, id string) (domain.Article, bool, error) {
	a, ok := f.byID[id]
	return a, ok, nil
}

func (f *fakeDocumentStore) PutDoc(_ context.Context, a domain.Article) error {
	f.byID[a.ID] = a
	return nil
}

func (f *fakeDocumentStore) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeDocumentStore) TextSearch(_ context.Context, _ string, opts domain.TextSearchOptions) ([]domain.Article, int, error) {
	var all []domain.Article
	for _, a := range f.byID {
		all = append(all, a)
	}
	total := len(all)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (f *fakeDocumentStore) Aggregate(_ context.Context, _ string) (map[string]int64, error) {
	return nil, nil
}

func (f *fakeDocumentStore) RecreateIndex(_ context.Context) error { return nil }

func newTestNewsController(t *testing.T, articles ...domain.Article) *News {
	t.Helper()
	kv, err := store.OpenInMemory()
	require.NoError(t, err)

	gateway := index.NewGateway(newFakeDocumentStore(articles...), index.NullVectorIndex{})
	metricsTracker := metrics.NewTracker(kv, gateway)
	readsTracker := readhistory.NewTracker(kv)
	cacheLayer := cache.NewLayer(kv)

	return &News{Gateway: gateway, Metrics: metricsTracker, Reads: readsTracker, Cache: cacheLayer}
}

func TestNewsGet(t *testing.T) {
	article := domain.Article{
		ID:          "a1",
		Title:       "Test Article",
		PublishedAt: time.Date(2024, 4, 27, 12, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		name       string
		articleID  string
		userID     string
		wantStatus int
	}{
		{name: "found_without_user", articleID: "a1", wantStatus: http.StatusOK},
		{name: "found_with_user_marks_read", articleID: "a1", userID: "user1", wantStatus: http.StatusOK},
		{name: "missing_article", articleID: "missing", wantStatus: http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			controller := newTestNewsController(t, article)

			req := httptest.NewRequest(http.MethodGet, "/api/news/"+tc.articleID, nil)
			if tc.userID != "" {
				req.Header.Set("x-user-id", tc.userID)
			}
			req = mux.SetURLVars(req, map[string]string{"id": tc.articleID})
			rec := httptest.NewRecorder()

			controller.Get(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)

			if tc.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				ID      string                `json:"id"`
				Metrics domain.ArticleMetrics `json:"metrics"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "a1", body.ID)
			assert.EqualValues(t, 1, body.Metrics.TotalViews)
		})
	}
}

func TestNewsList(t *testing.T) {
	controller := newTestNewsController(t,
		domain.Article{ID: "a1", Title: "First"},
		domain.Article{ID: "a2", Title: "Second"},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/news?page=1&limit=10", nil)
	rec := httptest.NewRecorder()

	controller.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []domain.Article `json:"data"`
		Pagination Pagination       `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.Pagination.TotalCount)
}

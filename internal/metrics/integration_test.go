package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/store"
)

type fakeDocs struct{}

func (fakeDocs) GetDoc(_ context.Context, id string) (domain.Article, bool, error) {
	return domain.Article{ID: id, Title: "Title " + id, Source: domain.Source{Name: "wire"}}, true, nil
}

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	s, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewTracker(s, fakeDocs{})
}

func TestRecordViewIncrementsCounters(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	first, err := tr.RecordView(ctx, "article1", "user1", domain.ViewMeta{IP: "1.2.3.4"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.TotalViews)

	second, err := tr.RecordView(ctx, "article1", "user2", domain.ViewMeta{IP: "5.6.7.8"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, second.TotalViews)
}

func TestUserHistoryHydratesArticle(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	_, err := tr.RecordView(ctx, "article1", "user1", domain.ViewMeta{})
	require.NoError(t, err)

	history, err := tr.UserHistory(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Title article1", history[0].Title)
}

func TestMetricsReturnsEngagementBreakdown(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	_, err := tr.RecordView(ctx, "article1", "user1", domain.ViewMeta{Referrer: "twitter", Language: "en"})
	require.NoError(t, err)

	snapshot, breakdown, err := tr.Metrics(ctx, "article1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, snapshot.TotalViews)
	assert.Equal(t, 1, breakdown.ByReferrer["twitter"])
	assert.Equal(t, 1, breakdown.ByLanguage["en"])
}

func TestTrendingOnlyIncludesArticlesWithViewsToday(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	_, err := tr.RecordView(ctx, "article1", "", domain.ViewMeta{})
	require.NoError(t, err)

	trending, err := tr.Trending(ctx, 10, "daily")
	require.NoError(t, err)
	require.Len(t, trending, 1)
	assert.Equal(t, "article1", trending[0].ArticleID)
	assert.EqualValues(t, 1, trending[0].TodayViews)
}

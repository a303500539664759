// Package metrics implements MetricsTracker: per-article view counters,
// a bounded engagement ring buffer, per-user view history, and
// trending derived from day-over-day view growth.
package metrics

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/store"
)

// Tracker is MetricsTracker.
type Tracker struct {
	store *store.Store
	docs  DocumentLookup
}

// DocumentLookup is the slice of IndexGateway a Tracker needs to
// hydrate userHistory entries with an article's title and source.
type DocumentLookup interface {
	GetDoc(ctx context.Context, id string) (domain.Article, bool, error)
}

// NewTracker composes a backing store and a document lookup.
func NewTracker(s *store.Store, docs DocumentLookup) *Tracker {
	return &Tracker{store: s, docs: docs}
}

func today() string { return time.Now().Format("2006-01-02") }

// RecordView increments total_views and the day's view counter
// synchronously (their return values are authoritative), then applies
// a best-effort batch of cardinality/engagement updates, and returns a
// fresh snapshot.
func (t *Tracker) RecordView(ctx context.Context, articleID, userID string, meta domain.ViewMeta) (domain.ArticleMetrics, error) {
	totalViews, err := t.store.Incr(ctx, store.ArticleViewsKey(articleID), 1, 0)
	if err != nil {
		return domain.ArticleMetrics{}, fmt.Errorf("%w: incrementing total views for %s: %v", domain.ErrStoreUnavailable, articleID, err)
	}

	date := today()
	dailyKey := store.ArticleDailyViewsKey(articleID, date)
	dailyViews, err := t.store.Incr(ctx, dailyKey, 1, domain.DailyViewsTTL)
	if err != nil {
		return domain.ArticleMetrics{}, fmt.Errorf("%w: incrementing daily views for %s: %v", domain.ErrStoreUnavailable, articleID, err)
	}

	t.bestEffortPipeline(ctx, articleID, userID, meta)

	uniqueViews, _ := t.store.HLLCount(ctx, store.ArticleUniqueViewsKey(articleID))
	userViews, _ := t.store.HLLCount(ctx, store.ArticleUserViewsKey(articleID))
	lastViewed, _ := t.readLastViewed(ctx, articleID)

	return domain.ArticleMetrics{
		ArticleID:     articleID,
		TotalViews:    totalViews,
		UniqueViewers: uniqueViews,
		UserViewers:   userViews,
		DailyViews:    map[string]int64{date: dailyViews},
		LastViewed:    lastViewed,
	}, nil
}

// bestEffortPipeline applies the cardinality, per-user, engagement, and
// last-viewed updates that are not authoritative return values — a
// failure here is logged, never surfaced, since the synchronous
// counters above already represent the view.
func (t *Tracker) bestEffortPipeline(ctx context.Context, articleID, userID string, meta domain.ViewMeta) {
	logger := domain.LoggerFromContext(ctx)

	if meta.IP != "" {
		sum := md5.Sum([]byte(meta.IP))
		if _, err := t.store.HLLAdd(ctx, store.ArticleUniqueViewsKey(articleID), hex.EncodeToString(sum[:])); err != nil {
			logger.Warn("recording unique viewer failed", "articleId", articleID, "error", err)
		}
	}

	if userID != "" {
		if _, err := t.store.HLLAdd(ctx, store.ArticleUserViewsKey(articleID), userID); err != nil {
			logger.Warn("recording user viewer failed", "articleId", articleID, "error", err)
		}
		if err := t.store.Put(ctx, fmt.Sprintf("%s:%s", store.UserArticleViewsKey(userID), articleID), []byte(time.Now().Format(time.RFC3339Nano)), 0); err != nil {
			logger.Warn("recording user article view failed", "userId", userID, "articleId", articleID, "error", err)
		}
	}

	record := domain.EngagementRecord{Timestamp: time.Now(), UserAgent: meta.UserAgent, Referrer: meta.Referrer, Language: meta.Language, UserID: userID}
	if err := t.store.RingPush(ctx, store.ArticleEngagementKey(articleID), record, domain.EngagementMaxEntries, domain.EngagementTTL); err != nil {
		logger.Warn("recording engagement entry failed", "articleId", articleID, "error", err)
	}

	if err := t.store.Put(ctx, store.ArticleLastViewedKey(articleID), []byte(time.Now().Format(time.RFC3339Nano)), 0); err != nil {
		logger.Warn("recording last-viewed timestamp failed", "articleId", articleID, "error", err)
	}
}

func (t *Tracker) readLastViewed(ctx context.Context, articleID string) (time.Time, error) {
	raw, ok, err := t.store.Get(ctx, store.ArticleLastViewedKey(articleID))
	if err != nil || !ok {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, string(raw))
}

// Metrics returns articleID's full snapshot plus a breakdown of its
// last up-to-50 engagement entries by hour, referrer, and language.
func (t *Tracker) Metrics(ctx context.Context, articleID string) (domain.ArticleMetrics, domain.EngagementBreakdown, error) {
	totalViews, err := t.store.ReadInt64(ctx, store.ArticleViewsKey(articleID))
	if err != nil {
		return domain.ArticleMetrics{}, domain.EngagementBreakdown{}, fmt.Errorf("%w: reading total views for %s: %v", domain.ErrStoreUnavailable, articleID, err)
	}
	uniqueViews, _ := t.store.HLLCount(ctx, store.ArticleUniqueViewsKey(articleID))
	userViews, _ := t.store.HLLCount(ctx, store.ArticleUserViewsKey(articleID))
	lastViewed, _ := t.readLastViewed(ctx, articleID)

	var engagement []domain.EngagementRecord
	if err := t.store.RingRead(ctx, store.ArticleEngagementKey(articleID), &engagement); err != nil {
		return domain.ArticleMetrics{}, domain.EngagementBreakdown{}, fmt.Errorf("%w: reading engagement for %s: %v", domain.ErrStoreUnavailable, articleID, err)
	}

	recent := engagement
	if len(recent) > 50 {
		recent = recent[len(recent)-50:]
	}
	breakdown := domain.EngagementBreakdown{
		ByHour:     map[string]int{},
		ByReferrer: map[string]int{},
		ByLanguage: map[string]int{},
	}
	for _, rec := range recent {
		breakdown.ByHour[rec.Timestamp.Format("15")]++
		if rec.Referrer != "" {
			breakdown.ByReferrer[rec.Referrer]++
		}
		if rec.Language != "" {
			breakdown.ByLanguage[rec.Language]++
		}
	}

	snapshot := domain.ArticleMetrics{
		ArticleID:     articleID,
		TotalViews:    totalViews,
		UniqueViewers: uniqueViews,
		UserViewers:   userViews,
		Engagement:    recent,
		LastViewed:    lastViewed,
	}
	return snapshot, breakdown, nil
}

// UserHistory lists every article userID has viewed, hydrated with
// title and source, sorted by most-recently-viewed first.
func (t *Tracker) UserHistory(ctx context.Context, userID string) ([]domain.UserHistoryEntry, error) {
	prefix := store.UserArticleViewsKey(userID) + ":"
	var entries []domain.UserHistoryEntry
	err := t.store.ScanPrefix(ctx, prefix, func(key string, value []byte) error {
		articleID := key[len(prefix):]
		viewedAt, parseErr := time.Parse(time.RFC3339Nano, string(value))
		if parseErr != nil {
			return nil
		}
		entry := domain.UserHistoryEntry{ArticleID: articleID, ViewedAt: viewedAt}
		if t.docs != nil {
			if article, ok, getErr := t.docs.GetDoc(ctx, articleID); getErr == nil && ok {
				entry.Title = article.Title
				entry.Source = article.Source.Name
			}
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing view history for %s: %v", domain.ErrStoreUnavailable, userID, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].ViewedAt.After(entries[j].ViewedAt) })
	return entries, nil
}

// Trending returns the top limit articles by today's view count over
// the trailing period, each decorated with day-over-day growth.
// period is accepted for interface parity with the HTTP surface; the
// underlying counters are daily, so only "daily" granularity is served.
func (t *Tracker) Trending(ctx context.Context, limit int, period string) ([]domain.TrendingArticle, error) {
	_ = period
	date := today()
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	prefix := "article_daily_views:"
	var results []domain.TrendingArticle
	err := t.store.ScanPrefix(ctx, prefix, func(key string, _ []byte) error {
		if len(key) < len(prefix)+len(date)+1 || key[len(key)-len(date):] != date {
			return nil
		}
		articleID := key[len(prefix) : len(key)-len(date)-1]
		todayViews, readErr := t.store.ReadInt64(ctx, key)
		if readErr != nil || todayViews <= 0 {
			return nil
		}
		yesterdayViews, _ := t.store.ReadInt64(ctx, store.ArticleDailyViewsKey(articleID, yesterday))
		growth := float64(todayViews-yesterdayViews) / float64(maxInt64(yesterdayViews, 1))
		results = append(results, domain.TrendingArticle{
			ArticleID:      articleID,
			TodayViews:     todayViews,
			YesterdayViews: yesterdayViews,
			Growth:         growth,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: computing trending: %v", domain.ErrStoreUnavailable, err)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].TodayViews > results[j].TodayViews })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

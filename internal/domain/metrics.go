package domain

import "time"

// EngagementMaxEntries bounds the per-article engagement ring buffer.
const EngagementMaxEntries = 1000

// EngagementTTL is the lifetime of the engagement ring buffer.
const EngagementTTL = 7 * 24 * time.Hour

// DailyViewsTTL is the lifetime of a single day's view counter.
const DailyViewsTTL = 30 * 24 * time.Hour

// EngagementRecord is one entry in an article's engagement ring buffer.
type EngagementRecord struct {
	Timestamp time.Time `json:"ts"`
	UserAgent string    `json:"ua,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
	Language  string    `json:"lang,omitempty"`
	UserID    string    `json:"userId,omitempty"`
}

// ArticleMetrics is the per-article view-tracking snapshot.
type ArticleMetrics struct {
	ArticleID     string             `json:"articleId"`
	TotalViews    int64              `json:"totalViews"`
	UniqueViewers int64              `json:"uniqueViewers"`
	UserViewers   int64              `json:"userViewers"`
	DailyViews    map[string]int64   `json:"dailyViews,omitempty"`
	Engagement    []EngagementRecord `json:"engagement,omitempty"`
	LastViewed    time.Time          `json:"lastViewed,omitempty"`
}

// EngagementBreakdown groups up to the last 50 engagement entries by
// hour, referrer, and language.
type EngagementBreakdown struct {
	ByHour     map[string]int `json:"byHour"`
	ByReferrer map[string]int `json:"byReferrer"`
	ByLanguage map[string]int `json:"byLanguage"`
}

// UserHistoryEntry is one row of a user's view history.
type UserHistoryEntry struct {
	ArticleID string    `json:"articleId"`
	Title     string    `json:"title"`
	ViewedAt  time.Time `json:"viewedAt"`
	Source    string    `json:"source"`
}

// TrendingArticle decorates an article's today/yesterday counters with
// growth.
type TrendingArticle struct {
	ArticleID      string  `json:"articleId"`
	TodayViews     int64   `json:"todayViews"`
	YesterdayViews int64   `json:"yesterdayViews"`
	Growth         float64 `json:"growth"`
}

// ViewMeta is the optional per-view context recorded alongside a view
// (user agent, referrer, language), passed through to the engagement
// ring buffer.
type ViewMeta struct {
	IP        string
	UserAgent string
	Referrer  string
	Language  string
}

package store

import "fmt"

// Key builders for the literal store key layout. The user, read-history
// and metrics builders are the keys those subsystems read and write. The
// cache layer (internal/cache) composes its own keys from a namespace and
// uses only NamespaceLRUKey from this file; ArticleKey and the similar,
// personalized, version, temp and all_articles builders are not called.

func ArticleKey(id string) string {
	return fmt.Sprintf("news:%s", id)
}

func PreferencesKey(userID string) string {
	return fmt.Sprintf("user:%s:preferences", userID)
}

func ReadMarkerKey(userID, articleID string) string {
	return fmt.Sprintf("user:%s:read:%s", userID, articleID)
}

func ReadSetKey(userID string) string {
	return fmt.Sprintf("read_set:%s", userID)
}

func ArticleViewsKey(articleID string) string {
	return fmt.Sprintf("article_views:%s", articleID)
}

func ArticleUniqueViewsKey(articleID string) string {
	return fmt.Sprintf("article_unique_views:%s", articleID)
}

func ArticleUserViewsKey(articleID string) string {
	return fmt.Sprintf("article_user_views:%s", articleID)
}

func UserArticleViewsKey(userID string) string {
	return fmt.Sprintf("user_article_views:%s", userID)
}

func ArticleDailyViewsKey(articleID, date string) string {
	return fmt.Sprintf("article_daily_views:%s:%s", articleID, date)
}

func ArticleEngagementKey(articleID string) string {
	return fmt.Sprintf("article_engagement:%s", articleID)
}

func ArticleLastViewedKey(articleID string) string {
	return fmt.Sprintf("article_last_viewed:%s", articleID)
}

func SimilarKey(id string, limit, offset int) string {
	return fmt.Sprintf("similar:%s:%d:%d", id, limit, offset)
}

func SimilarMetaKey(id string) string {
	return fmt.Sprintf("similar_meta:%s", id)
}

const SimilarLRUKey = "similar_lru"

func SimilarBloomKey(id string) string {
	return fmt.Sprintf("similar_bloom:%s", id)
}

func SimilarStatsKey(id string) string {
	return fmt.Sprintf("similar_stats:%s", id)
}

func SimilarFallbackKey(id string) string {
	return fmt.Sprintf("similar:%s:fallback", id)
}

func SimilarUniqueArticlesKey(date string) string {
	return fmt.Sprintf("similar_unique_articles:%s", date)
}

func PersonalizedKey(userID string, limit, offset int) string {
	return fmt.Sprintf("personalized_simple:%s:%d:%d", userID, limit, offset)
}

func PrefsVersionKey(userID string) string {
	return fmt.Sprintf("prefs_version_simple:%s", userID)
}

func PersonalizedStatsKey(userID string) string {
	return fmt.Sprintf("personalized_stats_simple:%s", userID)
}

func PersonalizedSearchKey(userID, queryHash string, limit, offset int) string {
	return fmt.Sprintf("personalized_search_simple:%s:%s:%d:%d", userID, queryHash, limit, offset)
}

func TempSimilarityKey(targetID string, epochMs int64) string {
	return fmt.Sprintf("temp:similarity:%s:%d", targetID, epochMs)
}

func AllArticlesKey(limit, offset int) string {
	return fmt.Sprintf("all_articles:%d:%d", limit, offset)
}

// NamespaceLRUKey returns the LRU scored-set key for an arbitrary cache
// namespace, used by the generic get/put path.
func NamespaceLRUKey(namespace string) string {
	return fmt.Sprintf("%s_lru", namespace)
}

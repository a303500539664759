package cache

import "time"

// Namespace-to-TTL table. news has no entry: it is authoritative and
// stored without expiry.
var namespaceTTLs = map[string]time.Duration{
	"all_articles":              300 * time.Second,
	"similar":                   3600 * time.Second,
	"similar_meta":              3600 * time.Second,
	"similar_lru":               86400 * time.Second,
	"similar_bloom":             3600 * time.Second,
	"similar_stats":             3600 * time.Second,
	"personalized":              1800 * time.Second,
	"personalized_search":       900 * time.Second,
	"personalized_simple":       1800 * time.Second,
	"personalized_search_simple": 900 * time.Second,
	"prefs_version_simple":      3600 * time.Second, // >= cache TTL
	"article_daily_views":       86400 * 30 * time.Second,
	"article_engagement":       86400 * 7 * time.Second,
}

// TTLFor returns the configured TTL for namespace, or 0 (no expiry) if
// the namespace is not in the table — the authoritative-document case.
func TTLFor(namespace string) time.Duration {
	return namespaceTTLs[namespace]
}

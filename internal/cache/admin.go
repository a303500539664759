package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/arclight-news/newsline-core/internal/domain"
)

// typePrefixes maps the named subsets clearSpecificTypes accepts to the
// store key prefixes they cover. "vectors" and "search_index" have no
// entry: ClearSpecificTypes skips them like any other unknown name, and
// neither the Pinecone index nor the MySQL document schema is touched.
var typePrefixes = map[string][]string{
	"articles":          {"news:", "all_articles:"},
	"article_metrics":   {"article_views:", "article_unique_views:", "article_user_views:", "user_article_views:", "article_daily_views:", "article_engagement:", "article_last_viewed:"},
	"search":            {"all_articles:"},
	"similar_articles":  {"similar:", "similar_meta:", "similar_lru", "zmember:similar_lru:", "zidx:similar_lru:", "similar_bloom", "similar_stats:", "cache_stats:similar:", "similar_unique_articles:"},
	"personalized":      {"personalized_simple:", "personalized_search_simple:", "personalized_stats_simple:", "personalized:", "personalized_meta:", "personalized_search:", "personalized_search_meta:", "zmember:personalized_lru:", "zidx:personalized_lru:", "zmember:personalized_search_lru:", "zidx:personalized_search_lru:"},
	"versions":          {"prefs_version_simple:"},
	"fallbacks":         {"similar:", "personalized_fallback:"},
	"temp":              {"temp:", "zmember:temp:", "zidx:temp:"},
}

// ClearReport summarizes the outcome of a bulk clear admin action.
type ClearReport struct {
	KeysClearedByPattern map[string]int   `json:"keysClearedByPattern"`
	ElapsedMsByPattern   map[string]int64 `json:"elapsedMsByPattern"`
	ElapsedMs            int64            `json:"elapsedMs"`
	Errors               []string         `json:"errors,omitempty"`
}

func clearPrefixes(ctx context.Context, l *Layer, prefixes []string) (map[string]int, map[string]int64, []string) {
	cleared := make(map[string]int, len(prefixes))
	elapsed := make(map[string]int64, len(prefixes))
	var errs []string
	for _, prefix := range prefixes {
		prefixStart := time.Now()
		n, err := l.store.DeletePrefix(ctx, prefix)
		elapsed[prefix] = time.Since(prefixStart).Milliseconds()
		if err != nil {
			errs = append(errs, fmt.Sprintf("clearing %s: %v", prefix, err))
			continue
		}
		cleared[prefix] = n
	}
	return cleared, elapsed, errs
}

// ClearAllExceptUser deletes every cache namespace except user:* (user
// preferences and other stored user records are preserved).
func (l *Layer) ClearAllExceptUser(ctx context.Context) (ClearReport, error) {
	start := time.Now()

	seen := make(map[string]struct{})
	var allPrefixes []string
	for _, prefixes := range typePrefixes {
		for _, p := range prefixes {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			allPrefixes = append(allPrefixes, p)
		}
	}

	cleared, elapsed, errs := clearPrefixes(ctx, l, allPrefixes)
	return ClearReport{
		KeysClearedByPattern: cleared,
		ElapsedMsByPattern:   elapsed,
		ElapsedMs:            time.Since(start).Milliseconds(),
		Errors:               errs,
	}, nil
}

// ClearSpecificTypes deletes only the named subsets.
func (l *Layer) ClearSpecificTypes(ctx context.Context, types []string) (ClearReport, error) {
	start := time.Now()

	var prefixes []string
	for _, t := range types {
		p, ok := typePrefixes[t]
		if !ok {
			continue
		}
		prefixes = append(prefixes, p...)
	}

	cleared, elapsed, errs := clearPrefixes(ctx, l, prefixes)
	return ClearReport{
		KeysClearedByPattern: cleared,
		ElapsedMsByPattern:   elapsed,
		ElapsedMs:            time.Since(start).Milliseconds(),
		Errors:               errs,
	}, nil
}

// NuclearClear deletes every key in the backing store. token must equal
// the literal string "NUCLEAR"; any other value is rejected before
// anything is touched.
func (l *Layer) NuclearClear(ctx context.Context, token string) (ClearReport, error) {
	if token != "NUCLEAR" {
		return ClearReport{}, domain.ErrNuclearConfirmationRequired
	}

	start := time.Now()
	n, err := l.store.DeletePrefix(ctx, "")
	if err != nil {
		return ClearReport{}, fmt.Errorf("%w: nuclear clear: %v", domain.ErrFatalCache, err)
	}

	elapsed := time.Since(start).Milliseconds()
	return ClearReport{
		KeysClearedByPattern: map[string]int{"*": n},
		ElapsedMsByPattern:   map[string]int64{"*": elapsed},
		ElapsedMs:            elapsed,
	}, nil
}

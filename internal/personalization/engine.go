package personalization

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arclight-news/newsline-core/internal/cache"
	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/embedding"
	"github.com/arclight-news/newsline-core/internal/index"
	"github.com/arclight-news/newsline-core/internal/readhistory"
)

const (
	FeedNamespace       = "personalized"
	SearchNamespace     = "personalized_search"
	prefsVersionNS      = "prefs_version_simple"
	vectorThreshold     = 0.4
	searchThreshold     = 0.3
	topUpScore          = 0.1
	generalPreference   = "general"
	readFilterMissRatio = 0.3
)

// Engine is PersonalizationEngine.
type Engine struct {
	gateway  *index.Gateway
	cache    *cache.Layer
	prefs    *PreferencesStore
	reads    *readhistory.Tracker
	embedder embedding.Embedder
}

// NewEngine composes the collaborators a personalized feed/search call
// needs.
func NewEngine(gateway *index.Gateway, cacheLayer *cache.Layer, prefs *PreferencesStore, reads *readhistory.Tracker, embedder embedding.Embedder) *Engine {
	if embedder == nil {
		embedder = embedding.NullEmbedder{}
	}
	return &Engine{gateway: gateway, cache: cacheLayer, prefs: prefs, reads: reads, embedder: embedder}
}

// FeedResult is the outcome of a personalizedFeed call.
type FeedResult struct {
	Articles          []domain.ScoredArticle
	Total             int
	PersonalizedCount int
	Cached            bool
	Fallback          bool
	FilteredReadCount int
}

// PersonalizedFeed assembles userID's feed: a cache probe guarded by
// the preference-version hash, a per-preference vector fan-out on
// miss, read-history filtering, and a general-article top-up when the
// matched set is too thin.
func (e *Engine) PersonalizedFeed(ctx context.Context, userID string, limit, offset int) (FeedResult, error) {
	if limit <= 0 {
		limit = 10
	}
	cacheKey := fmt.Sprintf("%s:%d:%d", userID, limit, offset)

	prefs, hasPrefs, err := e.prefs.Get(ctx, userID)
	if err != nil {
		return FeedResult{}, err
	}

	if hasPrefs {
		if hit, ok, hitErr := e.tryFeedCacheHit(ctx, userID, cacheKey, prefs.Preferences, limit, offset); hitErr == nil && ok {
			return hit, nil
		}
	}

	if !hasPrefs {
		return e.fallbackFeed(ctx, userID, limit, offset)
	}

	ranked, err := e.rankByPreferences(ctx, prefs.Preferences, limit, offset)
	if err != nil {
		return FeedResult{}, err
	}

	filtered, removed, err := e.filterRead(ctx, userID, ranked)
	if err != nil {
		return FeedResult{}, err
	}

	if len(filtered) < limit+offset+10 {
		filtered, err = e.topUp(ctx, userID, filtered, limit+offset+10)
		if err != nil {
			return FeedResult{}, err
		}
	}

	if err := e.writeBackFeed(ctx, userID, cacheKey, prefs.Preferences, ranked); err != nil {
		domain.LoggerFromContext(ctx).Warn("caching personalized feed failed", "userId", userID, "error", err)
	}

	return paginateFeed(filtered, limit, offset, removed, false), nil
}

func (e *Engine) tryFeedCacheHit(ctx context.Context, userID, cacheKey string, currentPrefs []string, limit, offset int) (FeedResult, bool, error) {
	envelope, _, ok, err := cache.Get[[]domain.ScoredArticle](ctx, e.cache, FeedNamespace, cacheKey)
	if err != nil || !ok {
		return FeedResult{}, false, err
	}

	wantVersion, err := VersionHash(currentPrefs)
	if err != nil {
		return FeedResult{}, false, err
	}
	if envelope.Version != wantVersion {
		return FeedResult{}, false, nil
	}

	filtered, removed, err := e.filterRead(ctx, userID, envelope.Results)
	if err != nil {
		return FeedResult{}, false, err
	}
	if float64(removed) > readFilterMissRatio*float64(limit) {
		return FeedResult{}, false, nil
	}

	result := paginateFeed(filtered, limit, offset, removed, false)
	result.Cached = true
	return result, true, nil
}

// rankByPreferences runs a vector query per preference (fanned out in
// parallel since each is an independent index round trip), applying
// the 1-0.1*index weight and the 0.4 similarity threshold, and merges
// the per-preference hits into one finalScore-ranked, deduplicated
// list.
func (e *Engine) rankByPreferences(ctx context.Context, prefs []string, limit, offset int) ([]domain.ScoredArticle, error) {
	want := limit + offset + 20

	type prefResult struct {
		order int
		pref  string
		hits  []index.Match
	}
	results := make([]prefResult, len(prefs))

	g, gctx := errgroup.WithContext(ctx)
	for i, pref := range prefs {
		i, pref := i, pref
		g.Go(func() error {
			vec, embErr := e.embedder.EmbedText(gctx, pref)
			if embErr != nil || len(vec) == 0 {
				return nil
			}
			matches, knnErr := e.gateway.VectorKNN(gctx, vec, want, nil, "")
			if knnErr != nil {
				return nil
			}
			results[i] = prefResult{order: i, pref: pref, hits: matches}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking by preferences: %w", err)
	}

	bestByArticle := make(map[string]domain.ScoredArticle)
	for _, r := range results {
		weight := domain.PreferenceWeight(r.order)
		for _, m := range r.hits {
			similarity := 1 - m.Distance
			if similarity < vectorThreshold || m.Article == nil {
				continue
			}
			score := similarity * weight
			if existing, ok := bestByArticle[m.ID]; ok && existing.FinalScore >= score {
				continue
			}
			bestByArticle[m.ID] = domain.ScoredArticle{
				Article:           *m.Article,
				FinalScore:        score,
				MatchedPreference: r.pref,
				PreferenceOrder:   r.order,
			}
		}
	}

	ranked := make([]domain.ScoredArticle, 0, len(bestByArticle))
	for _, sa := range bestByArticle {
		ranked = append(ranked, sa)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].FinalScore > ranked[j].FinalScore })
	return ranked, nil
}

func (e *Engine) filterRead(ctx context.Context, userID string, scored []domain.ScoredArticle) ([]domain.ScoredArticle, int, error) {
	read, err := e.reads.ListRead(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	readSet := make(map[string]struct{}, len(read))
	for _, id := range read {
		readSet[id] = struct{}{}
	}

	filtered := make([]domain.ScoredArticle, 0, len(scored))
	removed := 0
	for _, sa := range scored {
		if _, seen := readSet[sa.Article.ID]; seen {
			removed++
			continue
		}
		filtered = append(filtered, sa)
	}
	return filtered, removed, nil
}

// topUp fills filtered out to want entries with the most-recent general
// articles not already present and not already read by userID, scored
// at the fixed topUpScore floor.
func (e *Engine) topUp(ctx context.Context, userID string, filtered []domain.ScoredArticle, want int) ([]domain.ScoredArticle, error) {
	if len(filtered) >= want {
		return filtered, nil
	}
	chosen := make(map[string]struct{}, len(filtered))
	for _, sa := range filtered {
		chosen[sa.Article.ID] = struct{}{}
	}

	general, _, err := e.gateway.TextSearch(ctx, "", domain.TextSearchOptions{SortBy: "publishedAt", Limit: want * 2})
	if err != nil {
		return filtered, nil
	}

	candidates := make([]domain.ScoredArticle, 0, len(general))
	for _, a := range general {
		if _, already := chosen[a.ID]; already {
			continue
		}
		candidates = append(candidates, domain.ScoredArticle{
			Article:           a,
			FinalScore:        topUpScore,
			MatchedPreference: generalPreference,
		})
	}

	candidates, _, err = e.filterRead(ctx, userID, candidates)
	if err != nil {
		return filtered, err
	}

	for _, sa := range candidates {
		if len(filtered) >= want {
			break
		}
		filtered = append(filtered, sa)
		chosen[sa.Article.ID] = struct{}{}
	}
	return filtered, nil
}

func (e *Engine) fallbackFeed(ctx context.Context, userID string, limit, offset int) (FeedResult, error) {
	general, total, err := e.gateway.TextSearch(ctx, "", domain.TextSearchOptions{SortBy: "publishedAt", Limit: limit + offset + 20})
	if err != nil {
		return FeedResult{}, fmt.Errorf("fallback feed for %s: %w", userID, err)
	}

	scored := make([]domain.ScoredArticle, 0, len(general))
	for _, a := range general {
		scored = append(scored, domain.ScoredArticle{Article: a, FinalScore: topUpScore, MatchedPreference: generalPreference})
	}

	filtered, removed, err := e.filterRead(ctx, userID, scored)
	if err != nil {
		return FeedResult{}, err
	}

	result := paginateFeed(filtered, limit, offset, removed, true)
	result.Total = total
	return result, nil
}

func (e *Engine) writeBackFeed(ctx context.Context, userID, cacheKey string, prefs []string, results []domain.ScoredArticle) error {
	version, err := VersionHash(prefs)
	if err != nil {
		return err
	}
	envelope := domain.Envelope[[]domain.ScoredArticle]{
		Results:   results,
		Timestamp: time.Now(),
		Method:    "personalized",
		Version:   version,
	}
	sidecar := domain.Sidecar{TotalCount: len(results), Timestamp: envelope.Timestamp, Method: envelope.Method, LastUpdated: envelope.Timestamp}
	if err := cache.Put(ctx, e.cache, FeedNamespace, cacheKey, envelope, sidecar, cache.TTLFor(FeedNamespace)); err != nil {
		return err
	}
	return e.cache.PutVersion(ctx, prefsVersionNS, userID, version)
}

func paginateFeed(results []domain.ScoredArticle, limit, offset, filteredReadCount int, fallback bool) FeedResult {
	total := len(results)
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	if offset > len(results) {
		offset = len(results)
	}
	page := results[offset:end]

	personalizedCount := 0
	for _, sa := range page {
		if sa.MatchedPreference != generalPreference {
			personalizedCount++
		}
	}

	return FeedResult{
		Articles:          page,
		Total:             total,
		PersonalizedCount: personalizedCount,
		Fallback:          fallback,
		FilteredReadCount: filteredReadCount,
	}
}

// UpdatePreferences stores newPrefs for userID and cascades invalidation
// across every cached personalized feed/search page for that user plus
// the preference-version guard, so the next read recomputes rather than
// serving a stale hit under the old version hash.
func (e *Engine) UpdatePreferences(ctx context.Context, userID string, newPrefs []string) (domain.UserPreferences, error) {
	prefs, err := e.prefs.Update(ctx, userID, newPrefs)
	if err != nil {
		return domain.UserPreferences{}, err
	}
	if _, err := e.cache.InvalidatePrefix(ctx, FeedNamespace, userID+":"); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("invalidating personalized feed cache for %s: %w", userID, err)
	}
	if _, err := e.cache.InvalidatePrefix(ctx, SearchNamespace, userID+":"); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("invalidating personalized search cache for %s: %w", userID, err)
	}
	if err := e.cache.Invalidate(ctx, prefsVersionNS, userID); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("invalidating preference-version guard for %s: %w", userID, err)
	}
	return prefs, nil
}

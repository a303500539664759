package personalization

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/arclight-news/newsline-core/internal/cache"
	"github.com/arclight-news/newsline-core/internal/domain"
)

// SearchResult is the outcome of a personalizedSearch call.
type SearchResult = FeedResult

// PersonalizedSearch reuses the feed ranking with a larger buffer, then
// narrows to candidates matching query (by vector cosine similarity
// when both have vectors, else word overlap) and the optional
// sentiment/source filters.
func (e *Engine) PersonalizedSearch(ctx context.Context, userID, query string, sentiment, source string, limit, offset int) (SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	bufferLimit := limit * 8
	if bufferLimit < 100 {
		bufferLimit = 100
	}

	queryHash := searchQueryHash(query, sentiment, source)
	cacheKey := fmt.Sprintf("%s:%s:%d:%d", userID, queryHash, limit, offset)

	if envelope, _, ok, err := cache.Get[[]domain.ScoredArticle](ctx, e.cache, SearchNamespace, cacheKey); err == nil && ok {
		return SearchResult{Articles: envelope.Results, Total: len(envelope.Results), Cached: true}, nil
	}

	feed, err := e.PersonalizedFeed(ctx, userID, bufferLimit, 0)
	if err != nil {
		return SearchResult{}, err
	}
	candidates := feed.Articles

	var qv []float32
	if strings.TrimSpace(query) != "" {
		qv, _ = e.embedder.EmbedText(ctx, query)
	}

	filtered := make([]domain.ScoredArticle, 0, len(candidates))
	for _, sa := range candidates {
		searchSimilarity, matched := matchQuery(qv, query, sa.Article)
		if strings.TrimSpace(query) != "" && !matched {
			continue
		}
		if sentiment != "" && string(sa.Article.Sentiment) != sentiment {
			continue
		}
		if source != "" && sa.Article.Source.Name != source {
			continue
		}
		sa.SearchSimilarity = searchSimilarity
		filtered = append(filtered, sa)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].SearchSimilarity != filtered[j].SearchSimilarity {
			return filtered[i].SearchSimilarity > filtered[j].SearchSimilarity
		}
		return filtered[i].FinalScore > filtered[j].FinalScore
	})

	result := paginateFeed(filtered, limit, offset, feed.FilteredReadCount, feed.Fallback)

	envelope := domain.Envelope[[]domain.ScoredArticle]{Results: filtered, Timestamp: time.Now(), Method: "personalized_search"}
	sidecar := domain.Sidecar{TotalCount: len(filtered), Timestamp: envelope.Timestamp, Method: envelope.Method, LastUpdated: envelope.Timestamp}
	if err := cache.Put(ctx, e.cache, SearchNamespace, cacheKey, envelope, sidecar, cache.TTLFor(SearchNamespace)); err != nil {
		domain.LoggerFromContext(ctx).Warn("caching personalized search failed", "userId", userID, "error", err)
	}
	return result, nil
}

// matchQuery scores candidate against the query: cosine similarity when
// both a query vector and the candidate's vector are available, else a
// word-overlap fallback against the candidate's search text. matched
// reports whether the score clears the threshold for its method.
func matchQuery(qv []float32, query string, candidate domain.Article) (score float64, matched bool) {
	if len(qv) > 0 && len(candidate.Vector) > 0 {
		score = cosineSimilarity(qv, candidate.Vector)
		return score, score >= searchThreshold
	}
	score = wordOverlap(query, candidate.SearchText()+" "+candidate.Title+" "+candidate.Description)
	return score, score >= searchThreshold
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func wordOverlap(query, candidate string) float64 {
	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return 0
	}
	candidateSet := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(candidate)) {
		candidateSet[w] = struct{}{}
	}
	matched := 0
	seen := make(map[string]struct{})
	for _, w := range queryWords {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := candidateSet[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(seen))
}

func searchQueryHash(query, sentiment, source string) string {
	sum := md5.Sum([]byte(query + "|" + sentiment + "|" + source))
	return hex.EncodeToString(sum[:])
}

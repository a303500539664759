// Package similarity implements the SimilarityEngine: cache-first
// lookup of related articles, backed first by a vector KNN query and,
// when the index or embedder cannot serve one, a four-strategy
// text/semantic/category/temporal blend fused by weighted rank voting.
package similarity

import (
	"context"
	"fmt"
	"time"

	"github.com/arclight-news/newsline-core/internal/cache"
	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/embedding"
	"github.com/arclight-news/newsline-core/internal/index"
)

const namespace = "similar"

// vectorSimilarityFloor is the minimum cosine similarity a KNN match
// must clear to be returned from the primary vector path; matches below
// it are dropped, and when none clear it Similar falls back to the
// multi-strategy blender.
const vectorSimilarityFloor = 0.5

// Engine is the SimilarityEngine.
type Engine struct {
	gateway  *index.Gateway
	cache    *cache.Layer
	embedder embedding.Embedder
}

// NewEngine composes the collaborators a Similar call needs.
func NewEngine(gateway *index.Gateway, cacheLayer *cache.Layer, embedder embedding.Embedder) *Engine {
	if embedder == nil {
		embedder = embedding.NullEmbedder{}
	}
	return &Engine{gateway: gateway, cache: cacheLayer, embedder: embedder}
}

// Result is the outcome of a Similar call.
type Result struct {
	Articles []domain.SimilarArticle
	Total    int
	Cached   bool
	Method   string
	CacheAge time.Duration
}

// Similar returns articles related to articleID: it probes the cache,
// on a miss tries a vector KNN query, and if that cannot be served
// falls back to a weighted blend of four independent strategies,
// writing the result back to cache either way. On catastrophic
// failure of both paths it serves the last known-good tombstone result
// rather than an error, if one exists.
func (e *Engine) Similar(ctx context.Context, articleID string, limit, offset int) (Result, error) {
	if limit <= 0 {
		limit = 10
	}
	cacheKey := fmt.Sprintf("%s:%d:%d", articleID, limit, offset)

	_ = e.cache.StatsBump(ctx, namespace, articleID, cache.EventTotal)

	if envelope, sidecar, ok, err := cache.Get[[]domain.SimilarArticle](ctx, e.cache, namespace, cacheKey); err == nil && ok {
		_ = e.cache.StatsBump(ctx, namespace, articleID, cache.EventHit)
		return Result{
			Articles: envelope.Results,
			Total:    sidecar.TotalCount,
			Cached:   true,
			Method:   envelope.Method,
			CacheAge: time.Since(sidecar.Timestamp),
		}, nil
	}
	_ = e.cache.StatsBump(ctx, namespace, articleID, cache.EventMiss)
	_, _ = e.cache.MarkSeenRecently(ctx, namespace, articleID)

	target, ok, err := e.gateway.GetDoc(ctx, articleID)
	if err != nil {
		return e.tombstone(ctx, articleID, cacheKey, fmt.Errorf("loading target article %s: %w", articleID, err))
	}
	if !ok {
		return Result{}, fmt.Errorf("%w: article %s", domain.ErrNotFound, articleID)
	}

	result, err := e.computeVector(ctx, target, limit, offset)
	if err != nil || result == nil {
		result, err = e.computeFallback(ctx, target, limit, offset)
	}
	if err != nil {
		return e.tombstone(ctx, articleID, cacheKey, err)
	}

	envelope := domain.Envelope[[]domain.SimilarArticle]{
		Results:   result.Articles,
		Timestamp: time.Now(),
		Method:    result.Method,
	}
	sidecar := domain.Sidecar{
		TotalCount:  result.Total,
		Timestamp:   envelope.Timestamp,
		Method:      result.Method,
		LastUpdated: envelope.Timestamp,
	}
	if putErr := cache.Put(ctx, e.cache, namespace, cacheKey, envelope, sidecar, cache.TTLFor(namespace)); putErr != nil {
		domain.LoggerFromContext(ctx).Warn("caching similar results failed", "articleId", articleID, "error", putErr)
	}
	if putErr := cache.PutFallback(ctx, e.cache, namespace, articleID, envelope); putErr != nil {
		domain.LoggerFromContext(ctx).Warn("updating similar fallback tombstone failed", "articleId", articleID, "error", putErr)
	}
	_, _ = e.cache.RecordDailyUnique(ctx, namespace, articleID, time.Now())

	result.Cached = false
	result.CacheAge = time.Since(sidecar.Timestamp)
	return *result, nil
}

// computeVector runs the primary path: embed the target's search text
// and query the vector index, keeping only matches at or above the
// similarity floor. It returns (nil, nil) when the embedder or index
// cannot produce a confident result, signalling the caller to fall
// back rather than treating the absence of a good match as an error.
func (e *Engine) computeVector(ctx context.Context, target domain.Article, limit, offset int) (*Result, error) {
	vec := target.Vector
	if len(vec) == 0 {
		embedded, err := e.embedder.EmbedText(ctx, target.SearchText())
		if err != nil {
			return nil, nil
		}
		vec = embedded
	}
	if len(vec) == 0 {
		return nil, nil
	}

	matches, err := e.gateway.VectorKNN(ctx, vec, limit+offset+20, nil, target.ID)
	if err != nil {
		return nil, nil
	}

	var articles []domain.SimilarArticle
	for _, m := range matches {
		similarity := 1 - m.Distance
		if similarity < vectorSimilarityFloor || m.Article == nil {
			continue
		}
		articles = append(articles, domain.SimilarArticle{
			Article:    *m.Article,
			Similarity: similarity,
			Method:     domain.MethodVector,
		})
	}
	if len(articles) == 0 {
		return nil, nil
	}

	total := len(articles)
	end := offset + limit
	if end > len(articles) {
		end = len(articles)
	}
	if offset > len(articles) {
		offset = len(articles)
	}
	return &Result{Articles: articles[offset:end], Total: total, Method: domain.MethodVector}, nil
}

// computeFallback runs the four-strategy blend when the primary vector
// path could not serve a confident result.
func (e *Engine) computeFallback(ctx context.Context, target domain.Article, limit, offset int) (*Result, error) {
	articles, total, err := fallbackBlend(ctx, e.gateway, e.cache, target, target.ID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fallback blend for %s: %w", target.ID, err)
	}
	return &Result{Articles: articles, Total: total, Method: domain.MethodCombined}, nil
}

// tombstone serves the last known-good result for articleID when the
// live computation path failed outright, rather than propagating the
// error to the caller.
func (e *Engine) tombstone(ctx context.Context, articleID, cacheKey string, cause error) (Result, error) {
	envelope, ok, tombErr := cache.GetFallback[[]domain.SimilarArticle](ctx, e.cache, namespace, articleID)
	if tombErr != nil || !ok {
		return Result{}, cause
	}
	domain.LoggerFromContext(ctx).Warn("serving tombstone similar results after failure", "articleId", articleID, "cause", cause)
	return Result{
		Articles: envelope.Results,
		Total:    len(envelope.Results),
		Cached:   true,
		Method:   domain.MethodFallback,
		CacheAge: time.Since(envelope.Timestamp),
	}, nil
}

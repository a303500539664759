package similarity

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arclight-news/newsline-core/internal/cache"
	"github.com/arclight-news/newsline-core/internal/domain"
	"github.com/arclight-news/newsline-core/internal/index"
)

type strategyFunc func(ctx context.Context, gw *index.Gateway, target domain.Article, excludeID string, want int) ([]candidate, error)

var strategies = map[string]strategyFunc{
	"text":     textStrategy,
	"semantic": semanticStrategy,
	"category": categoryStrategy,
	"temporal": temporalStrategy,
}

// fallbackBlend runs the four fallback strategies in parallel, tolerating
// individual failures, fuses their scores by weighted sum into a
// store-backed temporary scored set, and hydrates the top limit results
// at offset.
func fallbackBlend(ctx context.Context, gw *index.Gateway, cacheLayer *cache.Layer, target domain.Article, excludeID string, limit, offset int) ([]domain.SimilarArticle, int, error) {
	want := limit + offset + 20

	type strategyOutcome struct {
		name       string
		candidates []candidate
	}
	outcomes := make(chan strategyOutcome, len(strategies))

	g, gctx := errgroup.WithContext(ctx)
	for name, fn := range strategies {
		name, fn := name, fn
		g.Go(func() error {
			cands, err := fn(gctx, gw, target, excludeID, want)
			if err != nil {
				// A single failing strategy does not abort fusion; the
				// remaining strategies still contribute.
				return nil
			}
			outcomes <- strategyOutcome{name: name, candidates: cands}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("running fallback strategies: %w", err)
	}
	close(outcomes)

	articlesByID := make(map[string]domain.Article)
	temp := cacheLayer.NewTempScoredSet(target.ID)
	defer func() { _ = temp.Discard(ctx) }()

	fused := make(map[string]float64)
	for outcome := range outcomes {
		weight := strategyWeights[outcome.name]
		for _, c := range outcome.candidates {
			articlesByID[c.article.ID] = c.article
			fused[c.article.ID] += weight * c.score
		}
	}

	if len(fused) == 0 {
		return nil, 0, nil
	}

	for id, score := range fused {
		if err := temp.Add(ctx, id, score); err != nil {
			return nil, 0, fmt.Errorf("accumulating fused score for %s: %w", id, err)
		}
	}

	ranked, err := temp.TopN(ctx, len(fused))
	if err != nil {
		return nil, 0, fmt.Errorf("extracting fused ranking: %w", err)
	}

	total := len(ranked)
	end := offset + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	if offset > len(ranked) {
		offset = len(ranked)
	}
	page := ranked[offset:end]

	results := make([]domain.SimilarArticle, 0, len(page))
	for _, id := range page {
		a, ok := articlesByID[id]
		if !ok {
			continue
		}
		results = append(results, domain.SimilarArticle{
			Article:    a,
			Similarity: fused[id],
			Method:     domain.MethodCombined,
		})
	}

	return results, total, nil
}

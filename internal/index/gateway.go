// Package index implements the IndexGateway: a single typed facade
// over a MySQL document store and a Pinecone vector index, modeled on
// the teacher's own app.Setup() wiring of a DatasetRepository and a
// SimilarArticleLister behind one facade (jbeshir-alignment-research-feed
// internal/app/app.go).
package index

import (
	"context"
	"fmt"

	"github.com/arclight-news/newsline-core/internal/domain"
)

// DocumentStore is the document-storage half of the gateway.
type DocumentStore interface {
	GetDoc(ctx context.Context, id string) (domain.Article, bool, error)
	PutDoc(ctx context.Context, a domain.Article) error
	Exists(ctx context.Context, id string) (bool, error)
	TextSearch(ctx context.Context, query string, opts domain.TextSearchOptions) ([]domain.Article, int, error)
	Aggregate(ctx context.Context, field string) (map[string]int64, error)
	RecreateIndex(ctx context.Context) error
}

// VectorIndex is the vector-search half of the gateway.
type VectorIndex interface {
	Upsert(ctx context.Context, id string, vec []float32, metadata map[string]any) error
	Delete(ctx context.Context, id string) error
	KNN(ctx context.Context, vec []float32, k int, filters map[string]any, excludeID string) ([]domain.VectorMatch, error)
}

// Match is a single KNN result paired with the document it matched.
// VectorKNN drops matches whose document is missing, so Article is
// always set on the matches it returns.
type Match struct {
	ID       string
	Distance float64 // 1 - similarity, cosine
	Article  *domain.Article
}

// Gateway is the IndexGateway: document get/put, full-text + tag
// search, vector KNN, and source aggregation, hiding which backend
// serves which.
type Gateway struct {
	docs    DocumentStore
	vectors VectorIndex
}

// NewGateway composes a document store and a vector index into one
// gateway.
func NewGateway(docs DocumentStore, vectors VectorIndex) *Gateway {
	return &Gateway{docs: docs, vectors: vectors}
}

// GetDoc fetches an article by id.
func (g *Gateway) GetDoc(ctx context.Context, id string) (domain.Article, bool, error) {
	a, ok, err := g.docs.GetDoc(ctx, id)
	if err != nil {
		return domain.Article{}, false, fmt.Errorf("%w: getting doc %s: %v", domain.ErrIndexUnavailable, id, err)
	}
	return a, ok, nil
}

// PutDoc stores a, idempotent on its ID, and keeps the vector index in
// sync when the article carries an embedding.
func (g *Gateway) PutDoc(ctx context.Context, a domain.Article) error {
	if err := g.docs.PutDoc(ctx, a); err != nil {
		return fmt.Errorf("%w: putting doc %s: %v", domain.ErrIndexUnavailable, a.ID, err)
	}
	if len(a.Vector) == 0 {
		return nil
	}
	metadata := map[string]any{"source": a.Source.Name}
	if a.Sentiment != "" {
		metadata["sentiment"] = string(a.Sentiment)
	}
	if err := g.vectors.Upsert(ctx, a.ID, a.Vector, metadata); err != nil {
		return fmt.Errorf("%w: upserting vector for %s: %v", domain.ErrIndexUnavailable, a.ID, err)
	}
	return nil
}

// Exists reports whether id is present in the document store.
func (g *Gateway) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := g.docs.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%w: checking existence of %s: %v", domain.ErrIndexUnavailable, id, err)
	}
	return ok, nil
}

// TextSearch runs a query-language search, returning the matching page
// and total count.
func (g *Gateway) TextSearch(ctx context.Context, query string, opts domain.TextSearchOptions) ([]domain.Article, int, error) {
	articles, total, err := g.docs.TextSearch(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: text search %q: %v", domain.ErrIndexUnavailable, query, err)
	}
	return articles, total, nil
}

// VectorKNN returns 2*k candidates nearest to vec (so callers can apply
// their own similarity threshold), hydrated with their documents.
// Matches whose document has since been deleted are dropped.
func (g *Gateway) VectorKNN(ctx context.Context, vec []float32, k int, filters map[string]any, excludeID string) ([]Match, error) {
	raw, err := g.vectors.KNN(ctx, vec, 2*k, filters, excludeID)
	if err != nil {
		return nil, fmt.Errorf("%w: vector KNN: %v", domain.ErrIndexUnavailable, err)
	}

	matches := make([]Match, 0, len(raw))
	for _, m := range raw {
		article, ok, getErr := g.docs.GetDoc(ctx, m.ID)
		if getErr != nil {
			return nil, fmt.Errorf("%w: hydrating KNN match %s: %v", domain.ErrIndexUnavailable, m.ID, getErr)
		}
		if !ok {
			continue
		}
		matches = append(matches, Match{ID: m.ID, Distance: 1 - m.Score, Article: &article})
	}
	return matches, nil
}

// Aggregate groups every document by field and counts them, the
// primitive behind listSources().
func (g *Gateway) Aggregate(ctx context.Context, field string) (map[string]int64, error) {
	counts, err := g.docs.Aggregate(ctx, field)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating by %s: %v", domain.ErrIndexUnavailable, field, err)
	}
	return counts, nil
}

// RecreateIndex recreates the document store's schema. The vector index
// is not touched: VectorIndex has no recreate operation.
func (g *Gateway) RecreateIndex(ctx context.Context) error {
	if err := g.docs.RecreateIndex(ctx); err != nil {
		return fmt.Errorf("%w: recreating document index: %v", domain.ErrIndexUnavailable, err)
	}
	return nil
}

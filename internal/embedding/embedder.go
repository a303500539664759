// Package embedding holds the collaborator interface SimilarityEngine
// and PersonalizationEngine use to turn preference/article text into
// vectors, grounded on the teacher's internal/datasources Embedder
// collaborator and its voyageai HTTP client.
package embedding

import "context"

// Embedder embeds text into a vector for similarity search.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// NullEmbedder is a null implementation of Embedder, used when no
// embedding provider is configured; callers fall through to the
// multi-strategy blender instead of failing outright.
type NullEmbedder struct{}

var _ Embedder = NullEmbedder{}

func (NullEmbedder) EmbedText(_ context.Context, _ string) ([]float32, error) {
	return nil, nil
}

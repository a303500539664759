package index

import (
	"context"

	"github.com/arclight-news/newsline-core/internal/domain"
)

// NullVectorIndex is a null implementation of VectorIndex, used when no
// vector driver is configured (VECTOR_DRIVER=null): every query falls
// through to SimilarityEngine/PersonalizationEngine's text/category
// fallback strategies instead of failing outright, mirroring the
// teacher's NullSimilarityRepository idiom.
type NullVectorIndex struct{}

var _ VectorIndex = NullVectorIndex{}

func (NullVectorIndex) Upsert(_ context.Context, _ string, _ []float32, _ map[string]any) error {
	return nil
}

func (NullVectorIndex) Delete(_ context.Context, _ string) error { return nil }

func (NullVectorIndex) KNN(_ context.Context, _ []float32, _ int, _ map[string]any, _ string) ([]domain.VectorMatch, error) {
	return nil, nil
}

package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullVectorIndex(t *testing.T) {
	ctx := context.Background()
	idx := NullVectorIndex{}

	require.NoError(t, idx.Upsert(ctx, "a1", []float32{0.1, 0.2}, map[string]any{"topic": "india"}))
	require.NoError(t, idx.Delete(ctx, "a1"))

	matches, err := idx.KNN(ctx, []float32{0.1, 0.2}, 10, nil, "")
	require.NoError(t, err)
	assert.Nil(t, matches)
}

package personalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{name: "identical vectors", a: []float32{1, 0, 0}, b: []float32{1, 0, 0}, want: 1},
		{name: "orthogonal vectors", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "mismatched length", a: []float32{1, 2}, b: []float32{1}, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, cosineSimilarity(tc.a, tc.b), 0.001)
		})
	}
}

func TestWordOverlap(t *testing.T) {
	score := wordOverlap("quick brown fox", "a quick fox ran")
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 1.0)
}

func TestSearchQueryHashStable(t *testing.T) {
	a := searchQueryHash("ai safety", "positive", "reuters")
	b := searchQueryHash("ai safety", "positive", "reuters")
	c := searchQueryHash("ai safety", "negative", "reuters")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclight-news/newsline-core/internal/domain"
)

func TestRankScoreDecreasesWithRank(t *testing.T) {
	assert.Equal(t, 1.0, rankScore(0))
	assert.Greater(t, rankScore(0), rankScore(1))
	assert.Greater(t, rankScore(1), rankScore(2))
}

func TestKeywordOverlap(t *testing.T) {
	cases := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{name: "no overlap with empty set", a: nil, b: []string{"ai"}, want: 0},
		{name: "identical sets overlap fully", a: []string{"ai", "safety"}, b: []string{"ai", "safety"}, want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, keywordOverlap(tc.a, tc.b))
		})
	}

	partial := keywordOverlap([]string{"ai", "safety", "alignment"}, []string{"AI", "governance", "alignment"})
	assert.Greater(t, partial, 0.0)
	assert.Less(t, partial, 1.0)
}

func TestToCandidatesExcludesTargetAndRespectsWant(t *testing.T) {
	articles := []domain.Article{
		{ID: "self"},
		{ID: "a"},
		{ID: "b"},
		{ID: "c"},
	}

	out := toCandidates(articles, "self", 2)

	require.Len(t, out, 2)
	for _, c := range out {
		assert.NotEqual(t, "self", c.article.ID)
	}
	assert.Greater(t, out[0].score, out[1].score, "expected descending reciprocal-rank scores")
}

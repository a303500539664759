package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandUnigramsAndBigrams(t *testing.T) {
	cases := []struct {
		name         string
		text         string
		wantContains []string
		wantAbsent   []string
	}{
		{
			name:         "unigrams and bigrams survive",
			text:         "The Quick Brown Fox jumps",
			wantContains: []string{"quick", "quick brown"},
		},
		{
			name:       "stop words dropped",
			text:       "the cat and the hat",
			wantAbsent: []string{"the", "and"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			terms := expandUnigramsAndBigrams(tc.text)
			for _, want := range tc.wantContains {
				assert.Contains(t, terms, want)
			}
			for _, absent := range tc.wantAbsent {
				assert.NotContains(t, terms, absent)
			}
		})
	}
}

func TestExtractSemanticTokens(t *testing.T) {
	tokens := extractSemanticTokens(`NASA launched "Project Artemis" with a GPT4 model`)

	assert.Contains(t, tokens, "NASA")
	assert.Contains(t, tokens, "Project Artemis")
	assert.Contains(t, tokens, "GPT4")
}

func TestExtractSemanticTokensDedupesCaseInsensitive(t *testing.T) {
	tokens := extractSemanticTokens("Apple released Apple news about APPLE")

	count := 0
	for _, tok := range tokens {
		if tok == "Apple" || tok == "APPLE" {
			count++
		}
	}
	assert.Equal(t, 1, count, "expected a single deduped token, got %v", tokens)
}

func TestWordOverlapScore(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		candidate string
		want      float64
	}{
		{name: "empty query scores zero", query: "", candidate: "anything", want: 0},
		{name: "full overlap scores one", query: "quick brown", candidate: "quick brown fox", want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, wordOverlapScore(tc.query, tc.candidate))
		})
	}

	partial := wordOverlapScore("quick brown fox", "the quick brown dog ran")
	assert.Greater(t, partial, 0.0)
	assert.Less(t, partial, 1.0)
}

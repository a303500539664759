package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentimentValid(t *testing.T) {
	cases := []struct {
		name  string
		s     Sentiment
		valid bool
	}{
		{name: "empty_is_valid", s: "", valid: true},
		{name: "positive_is_valid", s: SentimentPositive, valid: true},
		{name: "negative_is_valid", s: SentimentNegative, valid: true},
		{name: "neutral_is_valid", s: SentimentNeutral, valid: true},
		{name: "unknown_is_invalid", s: Sentiment("mixed"), valid: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.s.Valid())
		})
	}
}

func TestArticleSearchText(t *testing.T) {
	cases := []struct {
		name     string
		article  Article
		expected string
	}{
		{
			name:     "uses_title_when_no_keywords",
			article:  Article{Title: "Markets rally on rate cut"},
			expected: "Markets rally on rate cut",
		},
		{
			name:     "joins_keywords_when_present",
			article:  Article{Title: "ignored", Keywords: []string{"markets", "rates", "fed"}},
			expected: "markets rates fed",
		},
		{
			name:     "single_keyword",
			article:  Article{Title: "ignored", Keywords: []string{"markets"}},
			expected: "markets",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.article.SearchText())
		})
	}
}

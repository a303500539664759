package mysqldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		expected parsedQuery
	}{
		{
			name:  "plain_terms_and_together",
			query: "election budget",
			expected: parsedQuery{
				orGroups: [][]string{{"election"}, {"budget"}},
				tags:     map[string]string{},
			},
		},
		{
			name:  "pipe_separated_term_is_or_group",
			query: "election|referendum",
			expected: parsedQuery{
				orGroups: [][]string{{"election", "referendum"}},
				tags:     map[string]string{},
			},
		},
		{
			name:  "field_tag_lifted_out_of_text_terms",
			query: "budget source:reuters",
			expected: parsedQuery{
				orGroups: [][]string{{"budget"}},
				tags:     map[string]string{"source": "reuters"},
			},
		},
		{
			name:  "braces_trimmed_from_tag_value",
			query: "sentiment:{positive}",
			expected: parsedQuery{
				tags: map[string]string{"sentiment": "positive"},
			},
		},
		{
			name:  "negated_term",
			query: "budget -scandal",
			expected: parsedQuery{
				orGroups:  [][]string{{"budget"}},
				tags:      map[string]string{},
				negations: []string{"scandal"},
			},
		},
		{
			name:  "bare_hyphen_is_not_a_negation",
			query: "budget -",
			expected: parsedQuery{
				orGroups: [][]string{{"budget"}, {"-"}},
				tags:     map[string]string{},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := parseQuery(tc.query)
			assert.Equal(t, tc.expected.orGroups, result.orGroups)
			assert.Equal(t, tc.expected.tags, result.tags)
			assert.Equal(t, tc.expected.negations, result.negations)
		})
	}
}

func TestBuildBooleanQuery(t *testing.T) {
	cases := []struct {
		name     string
		parsed   parsedQuery
		expected string
	}{
		{
			name:     "single_terms_required",
			parsed:   parsedQuery{orGroups: [][]string{{"election"}, {"budget"}}},
			expected: "+election +budget",
		},
		{
			name:     "or_group_parenthesized",
			parsed:   parsedQuery{orGroups: [][]string{{"election", "referendum"}}},
			expected: "+(election referendum)",
		},
		{
			name:     "negations_appended",
			parsed:   parsedQuery{orGroups: [][]string{{"budget"}}, negations: []string{"scandal"}},
			expected: "+budget -scandal",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, buildBooleanQuery(tc.parsed))
		})
	}
}

func TestTagColumn(t *testing.T) {
	assert.Equal(t, "source_name", tagColumn("source"))
	assert.Equal(t, "sentiment", tagColumn("sentiment"))
	assert.Equal(t, "", tagColumn("keywords"))
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePreferences(t *testing.T) {
	cases := []struct {
		name     string
		raw      []string
		expected []string
	}{
		{
			name:     "lowercases_and_trims",
			raw:      []string{" Technology ", "INDIA"},
			expected: []string{"technology", "india"},
		},
		{
			name:     "dedupes_keeping_first_occurrence",
			raw:      []string{"sports", "Sports", "SPORTS", "world"},
			expected: []string{"sports", "world"},
		},
		{
			name:     "drops_blank_entries",
			raw:      []string{"", "  ", "business"},
			expected: []string{"business"},
		},
		{
			name: "truncates_to_max_preferences",
			raw: []string{
				"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l",
			},
			expected: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
		},
		{
			name:     "nil_input_returns_empty",
			raw:      nil,
			expected: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizePreferences(tc.raw)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestPreferenceWeight(t *testing.T) {
	cases := []struct {
		name     string
		order    int
		expected float64
	}{
		{name: "first_preference_weight_one", order: 0, expected: 1.0},
		{name: "second_preference_weight_point_nine", order: 1, expected: 0.9},
		{name: "tenth_preference_weight_point_one", order: 9, expected: 0.1},
		{name: "clamped_at_zero_beyond_ten", order: 15, expected: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, PreferenceWeight(tc.order), 0.0001)
		})
	}
}

func TestSortedCopy(t *testing.T) {
	original := []string{"world", "business", "sports"}
	sorted := SortedCopy(original)

	assert.Equal(t, []string{"business", "sports", "world"}, sorted)
	assert.Equal(t, []string{"world", "business", "sports"}, original, "input slice must not be mutated")
}

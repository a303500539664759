package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxInt64(t *testing.T) {
	cases := []struct {
		name string
		a    int64
		b    int64
		want int64
	}{
		{name: "second operand larger", a: 3, b: 5, want: 5},
		{name: "first operand larger", a: 5, b: 3, want: 5},
		{name: "growth-formula floor of 1", a: 0, b: 1, want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, maxInt64(tc.a, tc.b))
		})
	}
}

package trading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPoolNeverOverdistributes(t *testing.T) {
	cases := []struct {
		pool       float64
		recipients int
	}{
		{100, 3},
		{0.05, 7},
		{10.01, 2},
		{999.99, 13},
		{1, 1},
	}
	for _, tc := range cases {
		share := SplitPool(tc.pool, tc.recipients)
		assert.LessOrEqual(t, share*float64(tc.recipients), tc.pool,
			"pool=%v recipients=%d", tc.pool, tc.recipients)
	}
}

func TestSplitPoolFloorsToCents(t *testing.T) {
	assert.Equal(t, 33.33, SplitPool(100, 3))
	assert.Equal(t, 5.00, SplitPool(10.01, 2))
	assert.Equal(t, 0.00, SplitPool(0.05, 7))
	assert.Equal(t, 1.00, SplitPool(1, 1))
}

func TestSplitPoolNoRecipients(t *testing.T) {
	assert.Equal(t, float64(0), SplitPool(100, 0))
	assert.Equal(t, float64(0), SplitPool(100, -1))
}

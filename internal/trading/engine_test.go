package trading

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchCadence(t *testing.T) {
	// Across N Lot 1 purchases exactly floor(N/2) matches fire.
	for _, n := range []int64{1, 2, 3, 10, 225} {
		matches := int64(0)
		for counter := int64(1); counter <= n; counter++ {
			if MatchDue(counter) {
				matches++
			}
		}
		assert.Equal(t, n/2, matches, "N=%d", n)
	}
}

func TestRetryable(t *testing.T) {
	assert.False(t, retryable(eligibilityErr("insufficient balance")))
	assert.False(t, retryable(notFoundErr("user not found")))
	assert.False(t, retryable(assert.AnError))
	assert.True(t, retryable(errors.New("ERROR: deadlock detected (SQLSTATE 40P01)")))
	assert.True(t, retryable(errors.New("ERROR: could not serialize access due to concurrent update")))
}

package trading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"agritrade/internal/agritradeapi"
)

func TestCheckWithdrawal(t *testing.T) {
	config := agritradeapi.DefaultSystemConfig()
	user := agritradeapi.User{
		Balance:              500,
		ConsecutiveTradeDays: 3,
	}

	t.Run("non positive amount", func(t *testing.T) {
		err := CheckWithdrawal(user, 0, config)
		assert.Equal(t, RejectValidation, err.(*RejectError).Kind)
		err = CheckWithdrawal(user, -10, config)
		assert.Equal(t, RejectValidation, err.(*RejectError).Kind)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		err := CheckWithdrawal(user, 500.01, config)
		assert.Equal(t, RejectEligibility, err.(*RejectError).Kind)
		assert.EqualError(t, err, "insufficient balance")
	})

	t.Run("not enough trade days", func(t *testing.T) {
		idle := user
		idle.ConsecutiveTradeDays = config.WithdrawalMinDays - 1
		err := CheckWithdrawal(idle, 100, config)
		assert.Equal(t, RejectEligibility, err.(*RejectError).Kind)
	})

	t.Run("accepted", func(t *testing.T) {
		assert.NoError(t, CheckWithdrawal(user, 500, config))
		assert.NoError(t, CheckWithdrawal(user, 0.01, config))
	})
}

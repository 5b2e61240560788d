package trading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agritrade/internal/agritradeapi"
)

func activeUser(balance float64) agritradeapi.User {
	return agritradeapi.User{
		Id:            1,
		WalletAddress: "0x1111111111111111111111111111111111111111",
		Balance:       balance,
		PackageLevel:  1,
	}
}

func TestRequiredReferrals(t *testing.T) {
	config := agritradeapi.DefaultSystemConfig() // 225 free trades, 1 referral per 20

	assert.Equal(t, 0, RequiredReferrals(0, config))
	assert.Equal(t, 0, RequiredReferrals(224, config))
	assert.Equal(t, 1, RequiredReferrals(225, config))
	assert.Equal(t, 1, RequiredReferrals(244, config))
	assert.Equal(t, 2, RequiredReferrals(245, config))
	assert.Equal(t, 5, RequiredReferrals(225+4*20, config))
}

func TestDailyAccumulatedResetsAcrossDayBoundary(t *testing.T) {
	now := time.Date(2024, 5, 2, 0, 0, 5, 0, time.UTC)
	yesterday := time.Date(2024, 5, 1, 23, 59, 55, 0, time.UTC)
	earlier := time.Date(2024, 5, 2, 0, 0, 1, 0, time.UTC)

	user := activeUser(100)
	user.DailyBuyAmount = 50

	user.LastBuyDate = &yesterday
	assert.Equal(t, float64(0), DailyAccumulated(user, now), "new calendar day resets the window")

	user.LastBuyDate = &earlier
	assert.Equal(t, float64(50), DailyAccumulated(user, now), "same day keeps the accumulator")

	user.LastBuyDate = nil
	assert.Equal(t, float64(0), DailyAccumulated(user, now))
}

func TestCheckEligibilityOrder(t *testing.T) {
	config := agritradeapi.DefaultSystemConfig()
	pkg, err := ResolvePackage(config, 1)
	require.NoError(t, err)
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)

	t.Run("no active package", func(t *testing.T) {
		user := activeUser(100)
		user.PackageLevel = 0
		err := CheckEligibility(user, 10, pkg, config, now)
		require.Error(t, err)
		assert.Equal(t, RejectEligibility, err.(*RejectError).Kind)
		assert.Contains(t, err.Error(), "package")
	})

	t.Run("referral gate", func(t *testing.T) {
		user := activeUser(1000)
		user.TotalLotsBought = 225
		user.DirectReferrals = 0
		err := CheckEligibility(user, 10, pkg, config, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "referral")
	})

	t.Run("referral gate satisfied", func(t *testing.T) {
		user := activeUser(1000)
		user.TotalLotsBought = 225
		user.DirectReferrals = 1
		assert.NoError(t, CheckEligibility(user, 10, pkg, config, now))
	})

	t.Run("insufficient balance", func(t *testing.T) {
		user := activeUser(5)
		err := CheckEligibility(user, 10, pkg, config, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "balance")
	})

	t.Run("daily limit", func(t *testing.T) {
		user := activeUser(1000)
		user.DailyBuyAmount = 220
		user.LastBuyDate = &now
		err := CheckEligibility(user, 10, pkg, config, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "limit")
	})

	t.Run("daily limit clears on a new day", func(t *testing.T) {
		user := activeUser(1000)
		yesterday := now.AddDate(0, 0, -1)
		user.DailyBuyAmount = 220
		user.LastBuyDate = &yesterday
		assert.NoError(t, CheckEligibility(user, 10, pkg, config, now))
	})

	t.Run("accepted", func(t *testing.T) {
		user := activeUser(100)
		assert.NoError(t, CheckEligibility(user, 10, pkg, config, now))
	})
}

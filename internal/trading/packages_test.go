package trading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agritrade/internal/agritradeapi"
)

func TestResolvePackage(t *testing.T) {
	config := agritradeapi.DefaultSystemConfig()

	pkg, err := ResolvePackage(config, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(20), pkg.Activation)
	assert.Equal(t, [4]float64{10, 15, 22.50, 33.75}, pkg.Lots)
	assert.Equal(t, float64(225), pkg.Limit)

	pkg, err = ResolvePackage(config, 12)
	require.NoError(t, err)
	assert.Equal(t, float64(2500), pkg.Activation)

	_, err = ResolvePackage(config, 13)
	require.Error(t, err)
	assert.Equal(t, RejectEligibility, err.(*RejectError).Kind)
}

func TestLotPrice(t *testing.T) {
	config := agritradeapi.DefaultSystemConfig()

	price, err := LotPrice(config, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 101.25, price)

	_, err = LotPrice(config, 1, 0)
	require.Error(t, err)
	assert.Equal(t, RejectValidation, err.(*RejectError).Kind)

	_, err = LotPrice(config, 1, 5)
	require.Error(t, err)
	assert.Equal(t, RejectValidation, err.(*RejectError).Kind)
}

func TestSellPriceIsThirtyPercentPremiumRoundedToCents(t *testing.T) {
	assert.Equal(t, 13.00, SellPrice(10))
	assert.Equal(t, 29.25, SellPrice(22.50))
	assert.Equal(t, 43.88, SellPrice(33.75)) // 43.875 rounds up
	assert.Equal(t, 526.50, SellPrice(405))
}

package agritradeapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSystemConfigIsValid(t *testing.T) {
	config := DefaultSystemConfig()
	assert.NoError(t, config.Validate())
}

func TestDefaultPackageTable(t *testing.T) {
	config := DefaultSystemConfig()
	packages, err := config.PackageTable()
	assert.NoError(t, err)
	assert.Len(t, packages, 12)

	assert.Equal(t, 20.0, packages[0].Activation)
	assert.Equal(t, [4]float64{10, 15, 22.50, 33.75}, packages[0].Lots)
	assert.Equal(t, 225.0, packages[0].Limit)

	assert.Equal(t, 2500.0, packages[11].Activation)
	assert.Equal(t, [4]float64{120, 180, 270, 405}, packages[11].Lots)
}

func TestDefaultReferralTiers(t *testing.T) {
	config := DefaultSystemConfig()
	rewards, requirements, err := config.ReferralTiers()
	assert.NoError(t, err)
	assert.Len(t, rewards, 10)
	assert.Len(t, requirements, 10)
	assert.Equal(t, 0.06, rewards[0])
}

func TestValidateRejectsBrokenConfig(t *testing.T) {
	t.Run("empty package table", func(t *testing.T) {
		config := DefaultSystemConfig()
		config.Packages = "[]"
		assert.Error(t, config.Validate())
	})

	t.Run("out of order levels", func(t *testing.T) {
		config := DefaultSystemConfig()
		config.Packages = `[{"level":2,"activation":20,"lots":[10,15,22.5,33.75],"limit":225}]`
		assert.Error(t, config.Validate())
	})

	t.Run("malformed json", func(t *testing.T) {
		config := DefaultSystemConfig()
		config.Packages = "{"
		assert.Error(t, config.Validate())
	})

	t.Run("tier length mismatch", func(t *testing.T) {
		config := DefaultSystemConfig()
		config.ReferralRewards = "[0.06]"
		assert.Error(t, config.Validate())
	})

	t.Run("missing admin wallet", func(t *testing.T) {
		config := DefaultSystemConfig()
		config.AdminWallet = ""
		assert.Error(t, config.Validate())
	})

	t.Run("zero referral interval", func(t *testing.T) {
		config := DefaultSystemConfig()
		config.ReferralInterval = 0
		assert.Error(t, config.Validate())
	})
}

package agritradeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// PackageConfig is one row of the package price table.
type PackageConfig struct {
	Level      int        `json:"level"`
	Activation float64    `json:"activation"`
	Lots       [4]float64 `json:"lots"` // Prices for Lot 1, 2, 3, 4
	Limit      float64    `json:"limit"`
}

// SystemConfig is a singleton row. The package table and referral tiers are
// kept as JSON columns but only ever written through the typed structs below.
type SystemConfig struct {
	Id                      uint   `json:"id" gorm:"primarykey"`
	Packages                string `json:"packages"`              // JSON array of PackageConfig
	ReferralRewards         string `json:"referral_rewards"`      // JSON array of per-tier reward percentages
	ReferralRequirements    string `json:"referral_requirements"` // JSON array of per-tier direct referral counts
	WithdrawalMinDays       int    `json:"withdrawal_min_days"`
	AdminWallet             string `json:"admin_wallet"`
	DepositWallet           string `json:"deposit_wallet"`
	WithdrawalWallet        string `json:"withdrawal_wallet"`
	MaxTradesBeforeReferral int    `json:"max_trades_before_referral"`
	ReferralInterval        int    `json:"referral_interval"`
}

func (c SystemConfig) PackageTable() (packages []PackageConfig, err error) {
	err = json.Unmarshal([]byte(c.Packages), &packages)
	return
}

func (c SystemConfig) ReferralTiers() (rewards []float64, requirements []int, err error) {
	if err = json.Unmarshal([]byte(c.ReferralRewards), &rewards); err != nil {
		return
	}
	err = json.Unmarshal([]byte(c.ReferralRequirements), &requirements)
	return
}

func DefaultSystemConfig() SystemConfig {
	packages := []PackageConfig{
		{Level: 1, Activation: 20, Lots: [4]float64{10, 15, 22.50, 33.75}, Limit: 225},
		{Level: 2, Activation: 50, Lots: [4]float64{20, 30, 45, 67.50}, Limit: 225},
		{Level: 3, Activation: 100, Lots: [4]float64{30, 45, 67.50, 101.25}, Limit: 225},
		{Level: 4, Activation: 200, Lots: [4]float64{40, 60, 90, 135}, Limit: 225},
		{Level: 5, Activation: 500, Lots: [4]float64{50, 75, 112.50, 168.75}, Limit: 225},
		{Level: 6, Activation: 600, Lots: [4]float64{60, 90, 135, 202.50}, Limit: 225},
		{Level: 7, Activation: 800, Lots: [4]float64{70, 105, 157.50, 236.25}, Limit: 225},
		{Level: 8, Activation: 1000, Lots: [4]float64{80, 120, 180, 270}, Limit: 225},
		{Level: 9, Activation: 1200, Lots: [4]float64{90, 135, 202.50, 303.75}, Limit: 225},
		{Level: 10, Activation: 1500, Lots: [4]float64{100, 150, 225, 337.50}, Limit: 225},
		{Level: 11, Activation: 2000, Lots: [4]float64{110, 165, 247.50, 371.25}, Limit: 225},
		{Level: 12, Activation: 2500, Lots: [4]float64{120, 180, 270, 405}, Limit: 225},
	}
	rewards := []float64{0.06, 0.03, 0.02, 0.02, 0.02, 0.01, 0.01, 0.01, 0.01, 0.01}
	requirements := []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}
	packagesRaw, _ := json.Marshal(packages)
	rewardsRaw, _ := json.Marshal(rewards)
	requirementsRaw, _ := json.Marshal(requirements)
	return SystemConfig{
		Packages:                string(packagesRaw),
		ReferralRewards:         string(rewardsRaw),
		ReferralRequirements:    string(requirementsRaw),
		WithdrawalMinDays:       2,
		AdminWallet:             "0xb416D5C1D8a7546F5Be3FA550374868d90d79615",
		DepositWallet:           "0x8dc184d5dfae5dba51ea03b291f081058b4484b2",
		WithdrawalWallet:        "0xd10f1b960bd66a9cbd48380a545ab637d42ed407",
		MaxTradesBeforeReferral: 225,
		ReferralInterval:        20,
	}
}

// Validate rejects malformed admin config writes before they hit the row.
func (c SystemConfig) Validate() error {
	packages, err := c.PackageTable()
	if err != nil {
		return fmt.Errorf("packages: %w", err)
	}
	if len(packages) == 0 {
		return errors.New("packages: empty table")
	}
	for i, pkg := range packages {
		if pkg.Level != i+1 {
			return fmt.Errorf("packages: level %d out of order", pkg.Level)
		}
		if pkg.Activation <= 0 || pkg.Limit <= 0 {
			return fmt.Errorf("packages: level %d has non-positive activation or limit", pkg.Level)
		}
		for _, price := range pkg.Lots {
			if price <= 0 {
				return fmt.Errorf("packages: level %d has non-positive lot price", pkg.Level)
			}
		}
	}
	rewards, requirements, err := c.ReferralTiers()
	if err != nil {
		return fmt.Errorf("referral tiers: %w", err)
	}
	if len(rewards) != len(requirements) {
		return errors.New("referral tiers: rewards and requirements length mismatch")
	}
	if c.WithdrawalMinDays < 0 || c.MaxTradesBeforeReferral < 0 || c.ReferralInterval < 1 {
		return errors.New("invalid gating thresholds")
	}
	if c.AdminWallet == "" {
		return errors.New("admin wallet is required")
	}
	return nil
}

const configCacheKey = "system_config"

// LoadSystemConfig returns the singleton, creating defaults on first use.
func LoadSystemConfig(db *gorm.DB) (SystemConfig, error) {
	var config SystemConfig
	res := db.First(&config)
	if res.RowsAffected == 1 {
		return config, nil
	}
	config = DefaultSystemConfig()
	if res := db.Create(&config); res.Error != nil {
		return config, res.Error
	}
	return config, nil
}

// CachedSystemConfig serves reads from redis and falls through to the row.
// Admin writes go through SaveSystemConfig which refreshes the cache.
func CachedSystemConfig(ctx context.Context, rdb *redis.Client, db *gorm.DB) (SystemConfig, error) {
	raw, err := rdb.Get(ctx, configCacheKey).Result()
	if err == nil && len(raw) > 0 {
		var config SystemConfig
		if err := json.Unmarshal([]byte(raw), &config); err == nil {
			return config, nil
		}
	}
	config, err := LoadSystemConfig(db)
	if err != nil {
		return config, err
	}
	cached, _ := json.Marshal(config)
	rdb.Set(ctx, configCacheKey, cached, 0)
	return config, nil
}

func SaveSystemConfig(ctx context.Context, rdb *redis.Client, db *gorm.DB, config SystemConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if res := db.Save(&config); res.Error != nil {
		return res.Error
	}
	cached, _ := json.Marshal(config)
	return rdb.Set(ctx, configCacheKey, cached, 0).Err()
}

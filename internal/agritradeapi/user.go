package agritradeapi

import (
	"time"
)

// ZeroAddress is the sentinel sponsor for users who signed up without a referrer.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

type User struct {
	Id                   uint       `json:"id" gorm:"primarykey"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	WalletAddress        string     `gorm:"uniqueIndex;not null" json:"wallet_address"`
	SponsorAddress       string     `gorm:"index" json:"sponsor_address"`
	RefCode              string     `gorm:"index" json:"ref_code"`
	Balance              float64    `json:"balance"`
	PackageLevel         int        `json:"package_level"` // 0 = no active package, 1-12
	DailyBuyAmount       float64    `json:"daily_buy_amount"`
	LastBuyDate          *time.Time `json:"last_buy_date"`
	TotalLotsBought      int        `json:"total_lots_bought"` // resets to 0 on upgrade
	DirectReferrals      int        `json:"direct_referrals"`
	UpgradePackageWallet float64    `json:"upgrade_package_wallet"`
	ConsecutiveTradeDays int        `json:"consecutive_trade_days"`
	LastWithdrawalAt     *time.Time `json:"last_withdrawal_at"`
}

type UserData struct {
	ID                   uint    `json:"id"`
	WalletAddress        string  `json:"wallet_address"`
	Balance              float64 `json:"balance"` // up-to-date user USDT balance, on Platform
	PackageLevel         int     `json:"package_level"`
	DailyBuyAmount       float64 `json:"daily_buy_amount"`
	TotalLotsBought      int     `json:"total_lots_bought"`
	DirectReferrals      int     `json:"direct_referrals"`
	UpgradePackageWallet float64 `json:"upgrade_package_wallet"`
	ConsecutiveTradeDays int     `json:"consecutive_trade_days"`
	RefCode              string  `json:"ref_code"`
}

func (u User) Data() UserData {
	return UserData{
		ID:                   u.Id,
		WalletAddress:        u.WalletAddress,
		Balance:              u.Balance,
		PackageLevel:         u.PackageLevel,
		DailyBuyAmount:       u.DailyBuyAmount,
		TotalLotsBought:      u.TotalLotsBought,
		DirectReferrals:      u.DirectReferrals,
		UpgradePackageWallet: u.UpgradePackageWallet,
		ConsecutiveTradeDays: u.ConsecutiveTradeDays,
		RefCode:              u.RefCode,
	}
}

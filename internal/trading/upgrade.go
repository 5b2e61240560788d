package trading

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agritrade/internal/agritradeapi"
)

type UpgradeResult struct {
	Level   int     `json:"level"`
	Balance float64 `json:"balance"`
}

// Upgrade moves the user to the next package level, debiting the activation
// cost and starting a fresh trade cycle: totalLotsBought resets to 0 so the
// referral gate is measured against the new cycle, not lifetime trades.
func Upgrade(db *gorm.DB, config agritradeapi.SystemConfig, userID uint) (*UpgradeResult, error) {
	var result UpgradeResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var user agritradeapi.User
		res := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).
			First(&user)
		if res.RowsAffected != 1 {
			return notFoundErr("user not found")
		}
		nextLevel := user.PackageLevel + 1
		pkg, err := ResolvePackage(config, nextLevel)
		if err != nil {
			return eligibilityErr("max level reached")
		}
		if user.Balance < pkg.Activation {
			return eligibilityErr("insufficient balance")
		}

		user.Balance = agritradeapi.RoundFloat(user.Balance-pkg.Activation, 2)
		user.PackageLevel = nextLevel
		user.TotalLotsBought = 0
		if res := tx.Save(&user); res.Error != nil {
			return res.Error
		}

		txNew := agritradeapi.Transaction{
			UserId:      user.Id,
			Type:        agritradeapi.TxTypeUpgrade,
			Amount:      -pkg.Activation,
			Status:      agritradeapi.TxStatusCompleted,
			Description: fmt.Sprintf("Upgraded to Level %d", nextLevel),
		}
		if res := tx.Create(&txNew); res.Error != nil {
			return res.Error
		}

		result = UpgradeResult{Level: nextLevel, Balance: user.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

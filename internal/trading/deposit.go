package trading

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agritrade/internal/agritradeapi"
)

// Deposit credits a user's platform balance and appends the ledger row. When
// a txHash is supplied it is deduplicated so the same on-chain transfer can
// never be credited twice.
func Deposit(db *gorm.DB, walletAddress string, amount float64, txHash string, description string) (*agritradeapi.User, error) {
	if amount <= 0 {
		return nil, validationErr("amount must be positive")
	}
	var user agritradeapi.User
	err := db.Transaction(func(tx *gorm.DB) error {
		if txHash != "" {
			var double agritradeapi.Transaction
			res := tx.Where("tx_hash = ?", txHash).First(&double)
			if res.RowsAffected > 0 {
				return eligibilityErr("deposit already credited")
			}
		}
		res := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("wallet_address <> '' AND wallet_address = ?", walletAddress).
			First(&user)
		if res.RowsAffected != 1 {
			return notFoundErr("user not found")
		}

		user.Balance = agritradeapi.RoundFloat(user.Balance+amount, 2)
		if res := tx.Save(&user); res.Error != nil {
			return res.Error
		}

		if description == "" {
			description = "External USDT Deposit"
		}
		txNew := agritradeapi.Transaction{
			UserId:      user.Id,
			Type:        agritradeapi.TxTypeDeposit,
			Amount:      amount,
			Status:      agritradeapi.TxStatusCompleted,
			Description: description,
			TxHash:      txHash,
		}
		if res := tx.Create(&txNew); res.Error != nil {
			return res.Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

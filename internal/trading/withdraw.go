package trading

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agritrade/internal/agritradeapi"
)

// CheckWithdrawal evaluates the request predicates over a snapshot, no side
// effects.
func CheckWithdrawal(user agritradeapi.User, amount float64, config agritradeapi.SystemConfig) error {
	if amount <= 0 {
		return validationErr("amount must be positive")
	}
	if user.Balance < amount {
		return eligibilityErr("insufficient balance")
	}
	if user.ConsecutiveTradeDays < config.WithdrawalMinDays {
		return eligibilityErr(fmt.Sprintf("minimum %d consecutive trade days required", config.WithdrawalMinDays))
	}
	return nil
}

// RequestWithdrawal debits the balance immediately and parks the funds in a
// pending withdraw transaction; an admin later completes or rejects it.
func RequestWithdrawal(db *gorm.DB, config agritradeapi.SystemConfig, userID uint, amount float64, address string) (*agritradeapi.Transaction, error) {
	if address == "" {
		return nil, validationErr("withdrawal address is required")
	}
	var txNew agritradeapi.Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var user agritradeapi.User
		res := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).
			First(&user)
		if res.RowsAffected != 1 {
			return notFoundErr("user not found")
		}
		if err := CheckWithdrawal(user, amount, config); err != nil {
			return err
		}

		now := time.Now()
		user.Balance = agritradeapi.RoundFloat(user.Balance-amount, 2)
		user.LastWithdrawalAt = &now
		if res := tx.Save(&user); res.Error != nil {
			return res.Error
		}

		txNew = agritradeapi.Transaction{
			UserId:      user.Id,
			Type:        agritradeapi.TxTypeWithdraw,
			Amount:      -amount,
			Status:      agritradeapi.TxStatusPending,
			Description: fmt.Sprintf("Withdrawal request to %s", address),
		}
		if res := tx.Create(&txNew); res.Error != nil {
			return res.Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &txNew, nil
}

// ApproveWithdrawal completes a pending withdraw. The funds were debited at
// request time, so approval never touches the balance.
func ApproveWithdrawal(db *gorm.DB, txID uint) (*agritradeapi.Transaction, error) {
	var withdrawal agritradeapi.Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND type = ?", txID, agritradeapi.TxTypeWithdraw).
			First(&withdrawal)
		if res.RowsAffected != 1 {
			return notFoundErr("withdrawal not found")
		}
		if withdrawal.Status != agritradeapi.TxStatusPending {
			return eligibilityErr("withdrawal already resolved")
		}
		withdrawal.Status = agritradeapi.TxStatusCompleted
		if res := tx.Save(&withdrawal); res.Error != nil {
			return res.Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// RejectWithdrawal flips a pending withdraw to rejected and refunds exactly
// the absolute amount that was debited.
func RejectWithdrawal(db *gorm.DB, txID uint) (*agritradeapi.Transaction, error) {
	var withdrawal agritradeapi.Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND type = ?", txID, agritradeapi.TxTypeWithdraw).
			First(&withdrawal)
		if res.RowsAffected != 1 {
			return notFoundErr("withdrawal not found")
		}
		if withdrawal.Status != agritradeapi.TxStatusPending {
			return eligibilityErr("withdrawal already resolved")
		}
		withdrawal.Status = agritradeapi.TxStatusRejected
		if res := tx.Save(&withdrawal); res.Error != nil {
			return res.Error
		}

		refund := withdrawal.Amount
		if refund < 0 {
			refund = -refund
		}
		res = tx.Model(&agritradeapi.User{}).
			Where("id = ?", withdrawal.UserId).
			Update("balance", gorm.Expr("balance + ?", refund))
		if res.Error != nil {
			return res.Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// PendingWithdrawals lists withdraw requests awaiting an admin decision.
func PendingWithdrawals(db *gorm.DB) ([]agritradeapi.Transaction, error) {
	var withdrawals []agritradeapi.Transaction
	res := db.
		Where("type = ? AND status = ?", agritradeapi.TxTypeWithdraw, agritradeapi.TxStatusPending).
		Order("created_at ASC").
		Find(&withdrawals)
	if res.Error != nil {
		return nil, res.Error
	}
	return withdrawals, nil
}

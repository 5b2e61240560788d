package agritradeapi

import "time"

const (
	TxTypeDeposit        = "deposit"
	TxTypeWithdraw       = "withdraw"
	TxTypeBuyLot         = "buy_lot"
	TxTypeSellReward     = "sell_reward"
	TxTypeReferralReward = "referral_reward"
	TxTypeUpgrade        = "upgrade"

	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusRejected  = "rejected"
)

// Transaction is a Structure designed to keep the data of internal financial operations.
// Rows are append-only; Status is the only field ever updated after creation and
// only for withdraw rows (pending -> completed | rejected).
type Transaction struct {
	Id          uint      `json:"id" gorm:"primaryKey;autoIncrement:true"`
	CreatedAt   time.Time `json:"created_at"`
	UserId      uint      `json:"user_id" gorm:"index"` // ID of user whose balance is affected by this tx
	Type        string    `json:"type" gorm:"index"`    // "deposit", "withdraw", "buy_lot", "sell_reward", "referral_reward", "upgrade"
	Amount      float64   `json:"amount"`               // Signed amount, debits are negative
	Status      string    `json:"status" gorm:"index;default:completed"`
	Description string    `json:"description"`
	TxHash      string    `json:"tx_hash" gorm:"index"` // Optional blockchain transaction id
}

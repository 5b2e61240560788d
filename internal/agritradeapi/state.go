package agritradeapi

import (
	"time"

	"gorm.io/gorm"
)

// GlobalState is a singleton row. TotalLot1Buys drives the matching trigger and
// AutofillPool accumulates 5% of every purchase; both are mutated with
// atomic SQL increments only, never read-modify-write.
type GlobalState struct {
	Id            uint    `json:"id" gorm:"primarykey"`
	TotalLot1Buys int64   `json:"total_lot1_buys"`
	AutofillPool  float64 `json:"autofill_pool"`
}

// AutofillDistribution is the append-only audit trail of pool payouts.
type AutofillDistribution struct {
	Id              uint      `json:"id" gorm:"primarykey"`
	Amount          float64   `json:"amount"`
	RecipientsCount int       `json:"recipients_count"`
	DistributedAt   time.Time `json:"distributed_at" gorm:"autoCreateTime"`
}

// LoadGlobalState returns the singleton, creating it on first use.
func LoadGlobalState(db *gorm.DB) (GlobalState, error) {
	var state GlobalState
	res := db.First(&state)
	if res.RowsAffected == 1 {
		return state, nil
	}
	state = GlobalState{TotalLot1Buys: 0, AutofillPool: 0}
	if res := db.Create(&state); res.Error != nil {
		return state, res.Error
	}
	return state, nil
}

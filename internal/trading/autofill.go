package trading

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agritrade/internal/agritradeapi"
)

// AutofillMinReferrals is the fixed eligibility threshold for pool payouts.
const AutofillMinReferrals = 5

// SplitPool computes the per-user share, floored to cents so the pool can
// never be overdistributed; the sub-cent remainder is written off with the
// reset.
func SplitPool(pool float64, recipients int) float64 {
	if recipients <= 0 {
		return 0
	}
	return agritradeapi.FloorFloat(pool/float64(recipients), 2)
}

type DistributionResult struct {
	Amount     float64 `json:"amount"`
	PerUser    float64 `json:"per_user"`
	Recipients int     `json:"recipients"`
}

// DistributeAutofill splits the accumulated pool evenly across all users with
// enough direct referrals, crediting their upgrade-package wallets (not the
// spendable balance), then resets the pool and records the audit row. The
// whole batch commits or nothing does.
func DistributeAutofill(db *gorm.DB) (*DistributionResult, error) {
	var result DistributionResult
	err := db.Transaction(func(tx *gorm.DB) error {
		state, err := agritradeapi.LoadGlobalState(tx)
		if err != nil {
			return err
		}
		// Re-read under lock so concurrent buys cannot slip contributions
		// between the snapshot and the reset.
		var locked agritradeapi.GlobalState
		res := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", state.Id).
			First(&locked)
		if res.RowsAffected != 1 {
			return internalErr()
		}
		if locked.AutofillPool <= 0 {
			return eligibilityErr("autofill pool is empty")
		}

		var eligible []agritradeapi.User
		res = tx.
			Where("direct_referrals >= ?", AutofillMinReferrals).
			Order("id ASC").
			Find(&eligible)
		if res.Error != nil {
			return res.Error
		}
		if len(eligible) == 0 {
			return eligibilityErr("no eligible users (5+ referrals)")
		}

		share := SplitPool(locked.AutofillPool, len(eligible))
		for _, user := range eligible {
			res := tx.Model(&agritradeapi.User{}).
				Where("id = ?", user.Id).
				Update("upgrade_package_wallet", gorm.Expr("upgrade_package_wallet + ?", share))
			if res.Error != nil {
				return res.Error
			}
			reward := agritradeapi.Transaction{
				UserId:      user.Id,
				Type:        agritradeapi.TxTypeReferralReward,
				Amount:      share,
				Status:      agritradeapi.TxStatusCompleted,
				Description: "Monthly Global Autofill Distribution",
			}
			if res := tx.Create(&reward); res.Error != nil {
				return res.Error
			}
		}

		res = tx.Model(&agritradeapi.GlobalState{}).
			Where("id = ?", locked.Id).
			Update("autofill_pool", 0)
		if res.Error != nil {
			return res.Error
		}

		audit := agritradeapi.AutofillDistribution{
			Amount:          locked.AutofillPool,
			RecipientsCount: len(eligible),
		}
		if res := tx.Create(&audit); res.Error != nil {
			return res.Error
		}

		result = DistributionResult{
			Amount:     locked.AutofillPool,
			PerUser:    share,
			Recipients: len(eligible),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

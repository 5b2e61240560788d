package trading

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agritrade/internal/agritradeapi"
)

// matchEvery fires one FIFO match per this many Lot 1 purchases.
const matchEvery = 2

// BuyResult is everything the caller needs to render the purchase: the new
// lot, the buyer's balance after the debit, and the lot the match sold if one
// fired (the buyer may well be its owner).
type BuyResult struct {
	Lot     agritradeapi.Lot  `json:"lot"`
	Balance float64           `json:"balance"`
	SoldLot *agritradeapi.Lot `json:"sold_lot,omitempty"`
}

// MatchDue reports whether the given Lot 1 purchase counter value triggers a
// FIFO match.
func MatchDue(counter int64) bool {
	return counter%matchEvery == 0
}

// BuyLot runs the full purchase and payout sequence as one transaction:
// debit, daily window roll, pool contribution, lot creation, ledger append and
// the FIFO match when the Lot 1 counter crosses an even multiple. Either every
// step commits or nothing does. Contention is retried a few times before it is
// surfaced as a conflict.
func BuyLot(db *gorm.DB, config agritradeapi.SystemConfig, userID uint, lotType int) (*BuyResult, error) {
	if lotType < 1 || lotType > 4 {
		return nil, validationErr("invalid lot type")
	}
	var result *BuyResult
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		result, err = buyLotOnce(db, config, userID, lotType)
		if err == nil || !retryable(err) {
			return result, err
		}
	}
	return nil, &RejectError{Kind: RejectConflict, Message: "purchase contention, try again"}
}

func buyLotOnce(db *gorm.DB, config agritradeapi.SystemConfig, userID uint, lotType int) (*BuyResult, error) {
	var result BuyResult
	err := db.Transaction(func(tx *gorm.DB) error {
		// Re-fetch under lock; the handler's snapshot may be stale by now.
		var user agritradeapi.User
		res := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).
			First(&user)
		if res.RowsAffected != 1 {
			return notFoundErr("user not found")
		}
		pkg, err := ResolvePackage(config, user.PackageLevel)
		if err != nil && user.PackageLevel != 0 {
			return err
		}
		price := float64(0)
		if user.PackageLevel > 0 {
			price = pkg.Lots[lotType-1]
		}
		now := time.Now()
		if err := CheckEligibility(user, price, pkg, config, now); err != nil {
			return err
		}

		newDay := !SameTradingDay(user.LastBuyDate, now)
		user.Balance = agritradeapi.RoundFloat(user.Balance-price, 2)
		user.DailyBuyAmount = agritradeapi.RoundFloat(DailyAccumulated(user, now)+price, 2)
		user.LastBuyDate = &now
		user.TotalLotsBought++
		if newDay {
			user.ConsecutiveTradeDays++
		}
		if res := tx.Save(&user); res.Error != nil {
			return res.Error
		}

		state, err := agritradeapi.LoadGlobalState(tx)
		if err != nil {
			return err
		}
		contribution := agritradeapi.RoundFloat(price*AutofillShare, 2)
		res = tx.Model(&agritradeapi.GlobalState{}).
			Where("id = ?", state.Id).
			Update("autofill_pool", gorm.Expr("autofill_pool + ?", contribution))
		if res.Error != nil {
			return res.Error
		}

		lot := agritradeapi.Lot{
			UserId:       user.Id,
			Type:         lotType,
			BuyPrice:     price,
			SellPrice:    SellPrice(price),
			PackageLevel: user.PackageLevel,
			Status:       agritradeapi.LotStatusActive,
		}
		if res := tx.Create(&lot); res.Error != nil {
			return res.Error
		}

		txNew := agritradeapi.Transaction{
			UserId:      user.Id,
			Type:        agritradeapi.TxTypeBuyLot,
			Amount:      -price,
			Status:      agritradeapi.TxStatusCompleted,
			Description: fmt.Sprintf("Bought Lot %d (%d)", lotType, user.PackageLevel),
		}
		if res := tx.Create(&txNew); res.Error != nil {
			return res.Error
		}

		result = BuyResult{Lot: lot, Balance: user.Balance}

		if lotType == 1 {
			counter, err := incrementLot1Buys(tx, state.Id)
			if err != nil {
				return err
			}
			if MatchDue(counter) {
				sold, err := sellOldestLot(tx, 1, now)
				if err != nil {
					return err
				}
				if sold != nil {
					result.SoldLot = sold
					if sold.UserId == user.Id {
						result.Balance = agritradeapi.RoundFloat(result.Balance+sold.SellPrice, 2)
					}
				}
				// No active lot at this moment means the match is a
				// permanent miss; the counter stays incremented.
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// incrementLot1Buys bumps the global counter in one statement so concurrent
// buyers can never observe the same value.
func incrementLot1Buys(tx *gorm.DB, stateID uint) (int64, error) {
	var counter int64
	res := tx.Raw(
		"UPDATE global_states SET total_lot1_buys = total_lot1_buys + 1 WHERE id = ? RETURNING total_lot1_buys",
		stateID,
	).Scan(&counter)
	if res.Error != nil {
		return 0, res.Error
	}
	return counter, nil
}

// sellOldestLot pops the globally oldest active lot of the type (creation
// time ascending, id breaking ties) and pays its owner the fixed sell price.
// The locking read plus the conditional status flip guarantee a lot is never
// sold twice.
func sellOldestLot(tx *gorm.DB, lotType int, now time.Time) (*agritradeapi.Lot, error) {
	var lot agritradeapi.Lot
	res := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("type = ? AND status = ?", lotType, agritradeapi.LotStatusActive).
		Order("created_at ASC, id ASC").
		First(&lot)
	if res.RowsAffected != 1 {
		return nil, nil
	}
	res = tx.Model(&agritradeapi.Lot{}).
		Where("id = ? AND status = ?", lot.Id, agritradeapi.LotStatusActive).
		Updates(map[string]interface{}{
			"status":  agritradeapi.LotStatusSold,
			"sold_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected != 1 {
		// Another match got here first.
		return nil, nil
	}
	lot.Status = agritradeapi.LotStatusSold
	lot.SoldAt = &now

	// Atomic credit: the owner may be the buyer whose row is already locked.
	res = tx.Model(&agritradeapi.User{}).
		Where("id = ?", lot.UserId).
		Update("balance", gorm.Expr("balance + ?", lot.SellPrice))
	if res.Error != nil {
		return nil, res.Error
	}
	reward := agritradeapi.Transaction{
		UserId:      lot.UserId,
		Type:        agritradeapi.TxTypeSellReward,
		Amount:      lot.SellPrice,
		Status:      agritradeapi.TxStatusCompleted,
		Description: fmt.Sprintf("Lot %d Sold", lotType),
	}
	if res := tx.Create(&reward); res.Error != nil {
		return nil, res.Error
	}
	return &lot, nil
}

func retryable(err error) bool {
	if _, ok := err.(*RejectError); ok {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadlock") || strings.Contains(msg, "could not serialize")
}

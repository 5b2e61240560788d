package trading

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"agritrade/internal/agritradeapi"
)

// tradingLocation is the fixed reference timezone for calendar-day boundaries,
// so the daily window does not drift with server locale.
var tradingLocation = loadTradingLocation()

func loadTradingLocation() *time.Location {
	name := os.Getenv("TRADING_TZ")
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TradingDay formats a timestamp as the calendar day it falls on in the
// reference timezone.
func TradingDay(t time.Time) string {
	return t.In(tradingLocation).Format("2006-01-02")
}

// SameTradingDay reports whether an optional last-buy timestamp falls on the
// given day. A nil timestamp never matches.
func SameTradingDay(last *time.Time, now time.Time) bool {
	if last == nil {
		return false
	}
	return TradingDay(*last) == TradingDay(now)
}

// RequiredReferrals computes the referral gate for a cycle position. Zero
// until the free-trade allowance is used up, then one more direct referral per
// configured interval.
func RequiredReferrals(totalLotsBought int, config agritradeapi.SystemConfig) int {
	if totalLotsBought < config.MaxTradesBeforeReferral {
		return 0
	}
	return (totalLotsBought-config.MaxTradesBeforeReferral)/config.ReferralInterval + 1
}

// DailyAccumulated returns the buy amount already counted against today's
// limit, resetting to zero across a calendar-day boundary.
func DailyAccumulated(user agritradeapi.User, now time.Time) float64 {
	if SameTradingDay(user.LastBuyDate, now) {
		return user.DailyBuyAmount
	}
	return 0
}

// CheckEligibility evaluates the four purchase predicates over a snapshot of
// the user, in order, with no side effects. Each failure is a distinct
// eligibility rejection.
func CheckEligibility(user agritradeapi.User, price float64, pkg agritradeapi.PackageConfig, config agritradeapi.SystemConfig, now time.Time) error {
	if user.PackageLevel == 0 {
		return eligibilityErr("activate a package first")
	}
	if required := RequiredReferrals(user.TotalLotsBought, config); user.DirectReferrals < required {
		return eligibilityErr(fmt.Sprintf(
			"referral required: you need %d direct referrals to continue trading after %d trades (1 referral per %d trades)",
			required, config.MaxTradesBeforeReferral, config.ReferralInterval,
		))
	}
	if user.Balance < price {
		return eligibilityErr("insufficient balance")
	}
	if DailyAccumulated(user, now)+price > pkg.Limit {
		return eligibilityErr("daily buy limit reached")
	}
	return nil
}

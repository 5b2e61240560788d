package trading

import (
	"fmt"

	"agritrade/internal/agritradeapi"
)

// SellPriceFactor is the fixed premium a lot is sold for once matched.
const SellPriceFactor = 1.30

// AutofillShare is the cut of every purchase contributed to the pool.
const AutofillShare = 0.05

// ResolvePackage looks up the price table row for a package level.
func ResolvePackage(config agritradeapi.SystemConfig, level int) (agritradeapi.PackageConfig, error) {
	packages, err := config.PackageTable()
	if err != nil {
		return agritradeapi.PackageConfig{}, internalErr()
	}
	for _, pkg := range packages {
		if pkg.Level == level {
			return pkg, nil
		}
	}
	return agritradeapi.PackageConfig{}, eligibilityErr(fmt.Sprintf("no package config for level %d", level))
}

// LotPrice resolves the buy price of a lot type for the user's package level.
func LotPrice(config agritradeapi.SystemConfig, level int, lotType int) (float64, error) {
	if lotType < 1 || lotType > 4 {
		return 0, validationErr("invalid lot type")
	}
	pkg, err := ResolvePackage(config, level)
	if err != nil {
		return 0, err
	}
	return pkg.Lots[lotType-1], nil
}

// SellPrice is fixed at purchase time: buy price plus the 30% premium,
// rounded to cents.
func SellPrice(buyPrice float64) float64 {
	return agritradeapi.RoundFloat(buyPrice*SellPriceFactor, 2)
}

package trading

import (
	"gorm.io/gorm"

	"agritrade/internal/agritradeapi"
)

// QueueCounts tallies active and sold lots per type for the public trading
// screen.
func QueueCounts(db *gorm.DB) (map[int]agritradeapi.QueueCount, error) {
	counts := map[int]agritradeapi.QueueCount{
		1: {}, 2: {}, 3: {}, 4: {},
	}
	var rows []struct {
		Type   int
		Status string
		Total  int64
	}
	res := db.Model(&agritradeapi.Lot{}).
		Select("type, status, count(*) as total").
		Group("type, status").
		Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	for _, row := range rows {
		count := counts[row.Type]
		switch row.Status {
		case agritradeapi.LotStatusActive:
			count.Buy = row.Total
		case agritradeapi.LotStatusSold:
			count.Sell = row.Total
		}
		counts[row.Type] = count
	}
	return counts, nil
}

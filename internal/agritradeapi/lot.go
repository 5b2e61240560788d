package agritradeapi

import "time"

const (
	LotStatusActive = "active"
	LotStatusSold   = "sold"
)

// Lot is a purchased position waiting in the global FIFO queue until matched.
// SellPrice is fixed at purchase time and never recalculated.
type Lot struct {
	Id           uint       `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time  `json:"created_at" gorm:"index"`
	UserId       uint       `json:"user_id" gorm:"index"`
	Type         int        `json:"type" gorm:"index"` // 1, 2, 3, 4
	BuyPrice     float64    `json:"buy_price"`
	SellPrice    float64    `json:"sell_price"` // BuyPrice * 1.30
	PackageLevel int        `json:"package_level"`
	Status       string     `json:"status" gorm:"index;default:active"` // "active", "sold"
	SoldAt       *time.Time `json:"sold_at"`
}

// QueueCount is the per-type active/sold tally shown on the trading screen.
type QueueCount struct {
	Buy  int64 `json:"buy"`
	Sell int64 `json:"sell"`
}

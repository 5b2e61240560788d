package api

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"agritrade/internal/agritradeapi"
	"agritrade/internal/trading"
)

type buyParams struct {
	Type int `json:"type" binding:"required"`
}

// BuyLot runs the purchase engine and, when the FIFO match fired, pushes a
// payout notification to the sold lot's owner.
func BuyLot(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var buyP buyParams
	if err := c.ShouldBindJSON(&buyP); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	config, err := agritradeapi.CachedSystemConfig(c, app.Rdb, app.Db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	result, err := trading.BuyLot(app.Db, config, user.Id, buyP.Type)
	if err != nil {
		rejectJSON(c, err)
		return
	}

	if result.SoldLot != nil {
		var seller agritradeapi.User
		res := app.Db.Where("id = ?", result.SoldLot.UserId).First(&seller)
		if res.RowsAffected == 1 {
			agritradeapi.PublishNotification(app.Rdb, seller, agritradeapi.NotificationData{
				Style:   agritradeapi.MessageStyleSuccess,
				Type:    agritradeapi.MessageTypeLotSold,
				Message: fmt.Sprintf("Your Lot %d was sold for $%.2f!", result.SoldLot.Type, result.SoldLot.SellPrice),
				Amount:  result.SoldLot.SellPrice,
			})
		}
	}

	c.JSON(http.StatusOK, result)
}

func UpgradePackage(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	user, ok := currentUser(c)
	if !ok {
		return
	}
	config, err := agritradeapi.CachedSystemConfig(c, app.Rdb, app.Db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	result, err := trading.Upgrade(app.Db, config, user.Id)
	if err != nil {
		rejectJSON(c, err)
		return
	}

	cpUrl := os.Getenv("CP_URL")
	msg := fmt.Sprintf(
		`Package Upgrade [User: %d](%s/users/%d)
Level: %d`,
		user.Id,
		cpUrl,
		user.Id,
		result.Level,
	)
	agritradeapi.QueueTelegramMessage(msg, "finance")

	c.JSON(http.StatusOK, result)
}

func GetLots(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var lots []agritradeapi.Lot
	app.Db.Where("user_id = ?", user.Id).
		Order("created_at DESC").
		Find(&lots)
	c.JSON(http.StatusOK, lots)
}

// GetQueueCounts is public; the trading screen polls it for per-type depth.
func GetQueueCounts(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	counts, err := trading.QueueCounts(app.Db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, counts)
}

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"agritrade/internal/agritradeapi"
	"agritrade/internal/scan"
	"agritrade/internal/tasks"
	"agritrade/internal/trading"
)

type depositParams struct {
	WalletAddress string  `json:"walletAddress" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	TxHash        string  `json:"txHash"`
}

var explorer = scan.New()

// Deposit credits a user's platform balance after an external USDT transfer.
// When explorer verification is configured the supplied hash must resolve to a
// successful transaction.
func Deposit(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	var dParams depositParams
	if err := c.ShouldBindJSON(&dParams); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if dParams.TxHash != "" && explorer.Enabled() {
		ok, err := explorer.TxSucceeded(dParams.TxHash)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "could not verify transaction hash"})
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "transaction hash is not a confirmed transfer"})
			return
		}
	}

	user, err := trading.Deposit(app.Db, dParams.WalletAddress, dParams.Amount, dParams.TxHash, "")
	if err != nil {
		rejectJSON(c, err)
		return
	}

	agritradeapi.PublishUserSync(app.Rdb, *user)
	c.JSON(http.StatusOK, gin.H{"balance": user.Balance})
}

func GetPendingWithdrawals(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	withdrawals, err := trading.PendingWithdrawals(app.Db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

func ApproveWithdrawal(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	txId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid transaction id"})
		return
	}
	withdrawal, err := trading.ApproveWithdrawal(app.Db, uint(txId))
	if err != nil {
		rejectJSON(c, err)
		return
	}
	notifyWithdrawalOwner(app, withdrawal, "Your withdrawal was approved")
	c.JSON(http.StatusOK, gin.H{"message": "Withdrawal approved", "tx": withdrawal})
}

func RejectWithdrawal(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	txId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid transaction id"})
		return
	}
	withdrawal, err := trading.RejectWithdrawal(app.Db, uint(txId))
	if err != nil {
		rejectJSON(c, err)
		return
	}
	notifyWithdrawalOwner(app, withdrawal, "Your withdrawal was rejected and refunded")
	c.JSON(http.StatusOK, gin.H{"message": "Withdrawal rejected and funds refunded", "tx": withdrawal})
}

func notifyWithdrawalOwner(app *agritradeapi.App, withdrawal *agritradeapi.Transaction, message string) {
	var user agritradeapi.User
	res := app.Db.Where("id = ?", withdrawal.UserId).First(&user)
	if res.RowsAffected != 1 {
		return
	}
	amount := withdrawal.Amount
	if amount < 0 {
		amount = -amount
	}
	agritradeapi.PublishNotification(app.Rdb, user, agritradeapi.NotificationData{
		Style:   agritradeapi.MessageStyleInfo,
		Type:    agritradeapi.MessageTypeWithdrawal,
		Message: message,
		Amount:  amount,
	})
}

func GetConfig(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	config, err := agritradeapi.CachedSystemConfig(c, app.Rdb, app.Db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, config)
}

// UpdateConfig validates and persists the config row, then refreshes the
// redis cache so request handlers pick the change up immediately.
func UpdateConfig(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	current, err := agritradeapi.CachedSystemConfig(c, app.Rdb, app.Db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	updated := current
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	updated.Id = current.Id
	if err := agritradeapi.SaveSystemConfig(c, app.Rdb, app.Db, updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func GetUsers(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	var users []agritradeapi.User
	app.Db.Order("id ASC").Find(&users)
	c.JSON(http.StatusOK, users)
}

func UpdateUser(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user id"})
		return
	}
	var user agritradeapi.User
	res := app.Db.Where("id = ?", id).First(&user)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	user.Id = uint(id)
	if res := app.Db.Save(&user); res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// DistributeAutofill splits the pool across referral-qualified users and
// notifies each recipient.
func DistributeAutofill(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	result, err := trading.DistributeAutofill(app.Db)
	if err != nil {
		rejectJSON(c, err)
		return
	}

	var recipients []agritradeapi.User
	app.Db.Where("direct_referrals >= ?", trading.AutofillMinReferrals).Find(&recipients)
	for _, user := range recipients {
		agritradeapi.PublishNotification(app.Rdb, user, agritradeapi.NotificationData{
			Style:   agritradeapi.MessageStyleSuccess,
			Type:    agritradeapi.MessageTypeAutofill,
			Message: "Global Autofill reward credited to your upgrade wallet",
			Amount:  result.PerUser,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Autofill pool distributed",
		"amount":     result.Amount,
		"per_user":   result.PerUser,
		"recipients": result.Recipients,
	})
}

// ScheduleAutofill enqueues the distribution for the background worker instead
// of running it inline, so a large recipient set does not block the request.
func ScheduleAutofill(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	info, err := app.Aqc.Enqueue(tasks.NewAutofillDistributeTask())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Autofill distribution queued", "task_id": info.ID})
}

// GetTaskQueues reports background queue depth for the ops panel.
func GetTaskQueues(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	info, err := app.Aqi.GetQueueInfo("autofill")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"queues": []gin.H{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"queues": []gin.H{{
		"queue":     info.Queue,
		"pending":   info.Pending,
		"active":    info.Active,
		"retry":     info.Retry,
		"completed": info.Completed,
		"failed":    info.Failed,
	}}})
}

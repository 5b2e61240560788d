package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"agritrade/internal/agritradeapi"
	"agritrade/internal/trading"
)

type withdrawParams struct {
	Amount  float64 `json:"amount" binding:"required"`
	Address string  `json:"address" binding:"required"`
}

type PaginatedTx struct {
	Count    int                        `json:"count"`
	Next     string                     `json:"next"`
	Previous string                     `json:"previous"`
	Results  []agritradeapi.Transaction `json:"results"`
}

func GetTransactionsList(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
		return
	}
	if size < 1 || size > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errors.New("maximum size is 100").Error()})
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var transactions []agritradeapi.Transaction
	app.Db.Where("user_id = ?", user.Id).
		Order("created_at DESC").
		Find(&transactions)
	paginatedTx := paginateTx(transactions, page, size)
	c.JSON(http.StatusOK, paginatedTx)
}

func paginateTx(transactions []agritradeapi.Transaction, page int, size int) (paginatedTx PaginatedTx) {
	paginatedTx.Results = []agritradeapi.Transaction{}
	paginatedTx.Count = len(transactions)
	feedLen := len(transactions)
	i := (page - 1) * size
	if feedLen <= i {
		return paginatedTx
	}
	if feedLen > page*size {
		paginatedTx.Next = fmt.Sprintf("/users/tx/?page=%d&size=%d", page+1, size)
	}
	if page > 1 {
		paginatedTx.Previous = fmt.Sprintf("/users/tx/?page=%d&size=%d", page-1, size)
	}
	j := i + size
	if j > feedLen {
		j = feedLen
	}
	paginatedTx.Results = transactions[i:j]
	return paginatedTx
}

// Withdraw debits the balance right away and parks a pending request for
// admin review; the finance channel is pinged to approve it.
func Withdraw(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var wParams withdrawParams
	if err := c.ShouldBindJSON(&wParams); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	config, err := agritradeapi.CachedSystemConfig(c, app.Rdb, app.Db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	txNew, err := trading.RequestWithdrawal(app.Db, config, user.Id, wParams.Amount, wParams.Address)
	if err != nil {
		rejectJSON(c, err)
		return
	}

	cpUrl := os.Getenv("CP_URL")
	msg := fmt.Sprintf(
		`Approve Withdrawal [Transaction: %d](%s/txes/%d)
[User: %d](%s/users/%d)
Amount: %s
To: [%s](https://polygonscan.com/address/%s)`,
		txNew.Id,
		cpUrl,
		txNew.Id,
		user.Id,
		cpUrl,
		user.Id,
		agritradeapi.EscapeMarkdownV2(fmt.Sprintf("%.2f", wParams.Amount)),
		wParams.Address,
		wParams.Address,
	)
	agritradeapi.QueueTelegramMessage(msg, "finance")

	c.JSON(http.StatusOK, txNew)
}

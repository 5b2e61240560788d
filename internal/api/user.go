package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"agritrade/internal/agritradeapi"
	"agritrade/internal/api/jwt"
)

func GetUser(c *gin.Context) {
	app := c.MustGet("app").(*agritradeapi.App)
	address := c.MustGet("address")

	var user agritradeapi.User
	res := app.Db.Where("wallet_address = ?", address).First(&user)
	if res.RowsAffected == 1 {
		c.JSON(http.StatusOK, user)
	} else {
		c.JSON(http.StatusNotFound, nil)
	}
}

func GetUserFromToken(token string) (address string, userId uint, err error) {
	address, userId, err = jwt.ValidateToken(token)
	if err != nil {
		return "", 0, errors.New("invalid jwt")
	}

	return address, userId, nil
}

// currentUser loads the authenticated user set by the Auth middleware.
func currentUser(c *gin.Context) (agritradeapi.User, bool) {
	app := c.MustGet("app").(*agritradeapi.App)
	var user agritradeapi.User
	res := app.Db.Where("id = ?", c.GetUint("user_id")).First(&user)
	if res.RowsAffected != 1 {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid jwt"})
		return user, false
	}
	return user, true
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agritrade/internal/agritradeapi"
	"agritrade/internal/evm"
)

// Admin requires an authenticated wallet matching the configured admin wallet.
// Runs after Auth.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		app := c.MustGet("app").(*agritradeapi.App)
		address := c.GetString("address")

		config, err := agritradeapi.CachedSystemConfig(c, app.Rdb, app.Db)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !evm.SameAddress(address, config.AdminWallet) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

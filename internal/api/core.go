package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agritrade/internal/trading"
)

// rejectJSON maps a trading rejection to the right status without leaking
// storage internals for unexpected faults.
func rejectJSON(c *gin.Context, err error) {
	if reject, ok := err.(*trading.RejectError); ok {
		switch reject.Kind {
		case trading.RejectValidation, trading.RejectEligibility:
			c.JSON(http.StatusBadRequest, gin.H{"message": reject.Message})
		case trading.RejectNotFound:
			c.JSON(http.StatusNotFound, gin.H{"message": reject.Message})
		case trading.RejectConflict:
			c.JSON(http.StatusConflict, gin.H{"message": reject.Message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		}
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
}

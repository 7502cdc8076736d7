package billing

import (
	"net/http"

	"blog-app/database"
	"blog-app/internal/api/httpx"
	"blog-app/internal/domain/billing"
	"blog-app/internal/domain/users"
	"blog-app/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /checkPremium?email=
func CheckPremium(c *gin.Context) {
	email := users.NormalizeEmail(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email"})
		return
	}

	premium, err := httpx.Ledger().IsPremium(c, email)
	if err != nil {
		logger.Error(c, "Failed to check premium status", err, zap.String("email", email))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check premium status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isPremium": premium})
}

// GET /payments
func GetPaymentHistory(c *gin.Context) {
	email := c.GetString("email")
	if c.GetUint("user_id") == 0 || email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payments, err := billing.ListByEmail(c, database.DB, email)
	if err != nil {
		logger.Error(c, "Failed to fetch payment history", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

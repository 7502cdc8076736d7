package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"blog-app/database"
	"blog-app/internal/api/httpx"
	"blog-app/internal/domain/billing"
	"blog-app/internal/domain/users"
	"blog-app/internal/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
	IsPremium    bool      `json:"is_premium"`
	CreatedAt    time.Time `json:"created_at"`
}

type RevenueByCurrency struct {
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
	Count    int64  `json:"count"`
}

type AdminStats struct {
	TotalUsers     int64               `json:"total_users"`
	PremiumMembers int64               `json:"premium_members"`
	TotalPayments  int64               `json:"total_payments"`
	Revenue        []RevenueByCurrency `json:"revenue"`
	RecentRevenue  []RevenueByCurrency `json:"recent_revenue"`
}

func ListAllUsers(c *gin.Context) {
	limit, offset := httpx.Page(c)
	db := database.DB.WithContext(c)

	var total int64
	if err := db.Model(&users.User{}).Count(&total).Error; err != nil {
		logger.Error(c, "Failed to count users", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	var list []users.User
	if err := db.Order("id").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		logger.Error(c, "Failed to load users", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	emails := make([]string, 0, len(list))
	for _, u := range list {
		emails = append(emails, u.Email)
	}
	premium, err := httpx.Ledger().PremiumEmails(c, emails)
	if err != nil {
		logger.Error(c, "Failed to load premium members", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	out := make([]AdminUser, 0, len(list))
	for _, u := range list {
		out = append(out, AdminUser{
			ID:           u.ID,
			Email:        u.Email,
			Role:         u.Role,
			AuthProvider: u.AuthProvider,
			IsPremium:    premium[users.NormalizeEmail(u.Email)],
			CreatedAt:    u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": out, "total": total, "limit": limit, "offset": offset})
}

func ListAllPayments(c *gin.Context) {
	limit, offset := httpx.Page(c)

	payments, total, err := billing.ListAll(c, database.DB, limit, offset)
	if err != nil {
		logger.Error(c, "Failed to load payments", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments, "total": total, "limit": limit, "offset": offset})
}

func revenue(db *gorm.DB) ([]RevenueByCurrency, error) {
	out := []RevenueByCurrency{}
	err := db.Model(&billing.Payment{}).
		Select("currency, COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count").
		Where("payment_status = ?", "paid").
		Group("currency").
		Order("currency").
		Scan(&out).Error
	return out, err
}

func GetAdminStats(c *gin.Context) {
	db := database.DB.WithContext(c)
	var stats AdminStats

	if err := db.Model(&users.User{}).Count(&stats.TotalUsers).Error; err != nil {
		logger.Error(c, "Failed to compute stats", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	if err := db.Model(&billing.Payment{}).Count(&stats.TotalPayments).Error; err != nil {
		logger.Error(c, "Failed to compute stats", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	if err := db.Model(&billing.Payment{}).Distinct("email").Count(&stats.PremiumMembers).Error; err != nil {
		logger.Error(c, "Failed to compute stats", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	var err error
	if stats.Revenue, err = revenue(db); err != nil {
		logger.Error(c, "Failed to compute stats", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if stats.RecentRevenue, err = revenue(db.Where("created_at >= ?", thirtyDaysAgo)); err != nil {
		logger.Error(c, "Failed to compute stats", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func GetUserDetails(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var user users.User
	err = database.DB.WithContext(c).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		logger.Error(c, "Failed to load user", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	payments, err := billing.ListByEmail(c, database.DB, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       user,
		"is_premium": len(payments) > 0,
		"payments":   payments,
	})
}

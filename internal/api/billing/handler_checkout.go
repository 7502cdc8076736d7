package billing

import (
	"errors"
	"io"
	"net/http"
	"time"

	"blog-app/config"
	"blog-app/internal/domain/users"
	stripeinfra "blog-app/internal/infra/stripe"
	"blog-app/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// POST /create-checkout-session
func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	// The body is optional; the hosted page collects the email when absent.
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	email := users.NormalizeEmail(body.Email)
	if email == "" {
		email = users.NormalizeEmail(c.GetString("email"))
	}
	if email != "" && !users.IsEmailValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	if stripeinfra.Sessions == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe not configured"})
		return
	}

	params := stripeinfra.CheckoutParams(stripeinfra.CheckoutInput{
		Email:       email,
		Amount:      config.PREMIUM_PRICE_AMOUNT,
		Currency:    config.PREMIUM_PRICE_CURRENCY,
		ProductName: config.PREMIUM_PRODUCT_NAME,
		AppURL:      config.APP_URL,
	})
	s, err := stripeinfra.Sessions.New(params)
	if err != nil {
		logger.Error(c, "Failed to create checkout session", err, zap.String("email", email))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	logger.Info(c, "Checkout session created", zap.String("session_id", s.ID))
	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
}

// GET /get-session-details?session_id=
func GetSessionDetails(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id"})
		return
	}
	if stripeinfra.Sessions == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe not configured"})
		return
	}

	s, err := stripeinfra.Sessions.Get(sessionID, nil)
	if err != nil {
		if stripeinfra.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		logger.Error(c, "Failed to fetch checkout session", err, zap.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount":         s.AmountTotal,
		"currency":       string(s.Currency),
		"customer_email": stripeinfra.SessionEmail(s),
		"created_at":     time.Unix(s.Created, 0).UTC(),
		"payment_status": stripeinfra.NormalizePaymentStatus(s.PaymentStatus),
	})
}

// GET /config/stripe
func StripeConfig(c *gin.Context) {
	if config.STRIPE_PUBLISHABLE_KEY == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stripe publishable key not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publishableKey": config.STRIPE_PUBLISHABLE_KEY})
}

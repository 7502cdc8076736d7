package billing

import (
	"net/http"

	"blog-app/database"
	"blog-app/internal/api/httpx"
	"blog-app/internal/domain/billing"
	stripeinfra "blog-app/internal/infra/stripe"
	"blog-app/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const errInvalidSession = "Invalid session or unpaid"

// POST /stripe/confirm
//
// Called by the success page. It records the payment in case the webhook has
// not arrived yet; both paths share the session id so only one row is kept.
func ConfirmPayment(c *gin.Context) {
	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id"})
		return
	}
	if stripeinfra.Sessions == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe not configured"})
		return
	}

	s, err := stripeinfra.Sessions.Get(body.SessionID, nil)
	if err != nil {
		if stripeinfra.IsNotFound(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidSession})
			return
		}
		logger.Error(c, "Failed to fetch checkout session", err, zap.String("session_id", body.SessionID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch session"})
		return
	}
	if !stripeinfra.IsPaid(s.PaymentStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidSession})
		return
	}

	payment, err := stripeinfra.PaymentFromSession(s, billing.SourceConfirm)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidSession})
		return
	}

	created, err := httpx.Ledger().Record(c, payment)
	if err != nil {
		logger.Error(c, "Failed to record payment", err, zap.String("session_id", s.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment"})
		return
	}

	if !created {
		// The webhook got there first; answer with the stored row.
		stored, err := billing.FindBySession(c, database.DB, s.ID)
		if err != nil {
			logger.Warn(c, "Failed to load stored payment, answering with session data",
				zap.String("session_id", s.ID),
				zap.Error(err),
			)
		} else {
			payment = stored
		}
	}

	logger.Info(c, "Payment confirmed",
		zap.String("session_id", s.ID),
		zap.Bool("created", created),
	)
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment confirmed and saved",
		"payment": payment,
		"created": created,
	})
}

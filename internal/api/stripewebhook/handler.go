package stripewebhooks

import (
	"encoding/json"
	"io"
	"net/http"

	"blog-app/config"
	"blog-app/database"
	"blog-app/internal/domain/billing"
	stripeinfra "blog-app/internal/infra/stripe"
	"blog-app/internal/logger"

	"github.com/gin-gonic/gin"
	stripego "github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

const maxBodyBytes = 65536

func StripeWebhook(c *gin.Context) {
	endpointSecret := config.STRIPE_WEBHOOK_SECRET
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, maxBodyBytes)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := stripeinfra.VerifyEvent(payload, c.GetHeader("Stripe-Signature"), endpointSecret)
	if err != nil {
		logger.Warn(c, "Stripe signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	if event.Type != stripeinfra.EventCheckoutSessionCompleted {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	done, err := billing.EventProcessed(c, database.DB, event.ID)
	if err != nil {
		logger.Error(c, "Failed to look up webhook event", err, zap.String("event_id", event.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up event"})
		return
	}
	if done {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	var session stripego.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
		return
	}

	status, err := handleCheckoutSessionCompleted(c, &session)
	if err != nil {
		// 500 makes Stripe retry the delivery.
		logger.Error(c, "Failed to record checkout session", err,
			zap.String("event_id", event.ID),
			zap.String("session_id", session.ID),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	if err := billing.MarkEventProcessed(c, database.DB, event.ID, string(event.Type)); err != nil {
		// The payment is stored; a redelivery is absorbed by the session key.
		logger.Warn(c, "Failed to mark webhook event processed", zap.String("event_id", event.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}

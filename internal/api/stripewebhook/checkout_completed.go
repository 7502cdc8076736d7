package stripewebhooks

import (
	"errors"

	"blog-app/internal/api/httpx"
	"blog-app/internal/domain/billing"
	stripeinfra "blog-app/internal/infra/stripe"
	"blog-app/internal/logger"

	"github.com/gin-gonic/gin"
	stripego "github.com/stripe/stripe-go/v75"
	"go.uber.org/zap"
)

// handleCheckoutSessionCompleted stores the payment carried by the event and
// returns the status reported back to Stripe. Only store failures are errors.
func handleCheckoutSessionCompleted(c *gin.Context, session *stripego.CheckoutSession) (string, error) {
	payment, err := stripeinfra.PaymentFromSession(session, billing.SourceWebhook)
	if errors.Is(err, stripeinfra.ErrMissingEmail) {
		// Nothing to attach the payment to; retrying will not help.
		logger.Warn(c, "Checkout session has no customer email", zap.String("session_id", session.ID))
		return "skipped", nil
	}
	if err != nil {
		return "", err
	}

	created, err := httpx.Ledger().Record(c, payment)
	if err != nil {
		return "", err
	}

	logger.Info(c, "Payment recorded from webhook",
		zap.String("session_id", payment.StripeSessionID),
		zap.String("payment_status", payment.PaymentStatus),
		zap.Int64("amount", payment.Amount),
		zap.Bool("created", created),
	)
	if !created {
		return "already_recorded", nil
	}
	return "received", nil
}

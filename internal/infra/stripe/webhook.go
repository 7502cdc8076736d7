package stripe

import (
	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const EventCheckoutSessionCompleted = "checkout.session.completed"

// VerifyEvent checks the Stripe-Signature header against secret and decodes
// the event.
func VerifyEvent(payload []byte, signature, secret string) (stripego.Event, error) {
	return webhook.ConstructEventWithOptions(
		payload,
		signature,
		secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
}

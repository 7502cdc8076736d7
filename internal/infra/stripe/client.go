package stripe

import (
	"errors"
	"net/http"

	stripego "github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// SessionClient is the slice of the Checkout Sessions API the service uses.
type SessionClient interface {
	New(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
	Get(id string, params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
}

// Sessions is nil until Init runs.
var Sessions SessionClient

func Init(secretKey string) {
	stripego.Key = secretKey
	Sessions = &checkoutsession.Client{
		B:   stripego.GetBackend(stripego.APIBackend),
		Key: secretKey,
	}
}

// IsNotFound reports whether err is Stripe's answer for an unknown object.
func IsNotFound(err error) bool {
	var se *stripego.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.HTTPStatusCode == http.StatusNotFound || se.Code == stripego.ErrorCodeResourceMissing
}

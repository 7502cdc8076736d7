package stripe

import (
	"strings"

	stripego "github.com/stripe/stripe-go/v75"
)

// NormalizePaymentStatus maps a Checkout payment status onto the values stored
// in payments.payment_status.
func NormalizePaymentStatus(s stripego.CheckoutSessionPaymentStatus) string {
	v := strings.TrimSpace(string(s))
	switch v {
	case "":
		return "unknown"
	case string(stripego.CheckoutSessionPaymentStatusPaid):
		return "paid"
	case string(stripego.CheckoutSessionPaymentStatusUnpaid):
		return "unpaid"
	case string(stripego.CheckoutSessionPaymentStatusNoPaymentRequired):
		return "no_payment_required"
	default:
		return v
	}
}

func IsPaid(s stripego.CheckoutSessionPaymentStatus) bool {
	return NormalizePaymentStatus(s) == "paid"
}

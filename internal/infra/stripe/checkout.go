package stripe

import (
	"errors"
	"strings"

	"blog-app/internal/domain/billing"

	stripego "github.com/stripe/stripe-go/v75"
)

var ErrMissingEmail = errors.New("checkout session has no customer email")

// CheckoutInput describes the one-off premium purchase.
type CheckoutInput struct {
	Email       string
	Amount      int64
	Currency    string
	ProductName string
	AppURL      string
}

func CheckoutParams(in CheckoutInput) *stripego.CheckoutSessionParams {
	appURL := strings.TrimRight(in.AppURL, "/")

	params := &stripego.CheckoutSessionParams{
		Mode:       stripego.String(string(stripego.CheckoutSessionModePayment)),
		SuccessURL: stripego.String(appURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripego.String(appURL + "/"),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency: stripego.String(strings.ToLower(in.Currency)),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripego.String(in.ProductName),
					},
					UnitAmount: stripego.Int64(in.Amount),
				},
				Quantity: stripego.Int64(1),
			},
		},
	}
	if in.Email != "" {
		params.CustomerEmail = stripego.String(in.Email)
	}
	return params
}

// SessionEmail prefers the email given at session creation and falls back to
// the one the customer typed on the hosted page.
func SessionEmail(s *stripego.CheckoutSession) string {
	if s.CustomerEmail != "" {
		return s.CustomerEmail
	}
	if s.CustomerDetails != nil {
		return s.CustomerDetails.Email
	}
	return ""
}

// PaymentFromSession copies the fields of a completed session into a payment
// row. The payment status is copied as is; callers decide whether it matters.
func PaymentFromSession(s *stripego.CheckoutSession, source string) (*billing.Payment, error) {
	email := SessionEmail(s)
	if email == "" {
		return nil, ErrMissingEmail
	}

	currency := strings.ToLower(string(s.Currency))
	if currency == "" {
		currency = "usd"
	}

	return &billing.Payment{
		Email:           email,
		Amount:          s.AmountTotal,
		Currency:        currency,
		PaymentStatus:   NormalizePaymentStatus(s.PaymentStatus),
		StripeSessionID: s.ID,
		Source:          source,
	}, nil
}

package billing

import "time"

const (
	SourceWebhook = "webhook"
	SourceConfirm = "confirm"

	StatusPaid = "paid"
)

// Payment is one successful checkout. StripeSessionID is the idempotency key
// shared by the webhook and the confirmation endpoint: a session is stored at
// most once whichever path sees it first.
type Payment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Email           string    `gorm:"not null;index" json:"email"`
	Amount          int64     `gorm:"not null" json:"amount"`
	Currency        string    `gorm:"type:varchar(3);not null" json:"currency"`
	PaymentStatus   string    `gorm:"type:varchar(32);not null" json:"payment_status"`
	StripeSessionID string    `gorm:"not null;uniqueIndex" json:"stripe_session_id"`
	Source          string    `gorm:"type:varchar(16);not null" json:"source"`
	CreatedAt       time.Time `json:"created_at"`
}

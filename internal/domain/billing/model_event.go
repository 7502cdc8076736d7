package billing

import "time"

// StripeEvent records webhook events that have been fully processed.
type StripeEvent struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   string    `gorm:"not null;uniqueIndex"`
	Type      string    `gorm:"not null"`
	CreatedAt time.Time
}

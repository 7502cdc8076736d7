package billing

import (
	"context"
	"errors"
	"fmt"

	"blog-app/internal/domain/users"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPaymentNotFound = errors.New("payment not found")

// InsertPayment stores p unless a row for the same checkout session already
// exists. created is false when the insert was skipped.
func InsertPayment(ctx context.Context, db *gorm.DB, p *Payment) (created bool, err error) {
	p.Email = users.NormalizeEmail(p.Email)
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stripe_session_id"}},
			DoNothing: true,
		}).
		Create(p)
	if res.Error != nil {
		return false, fmt.Errorf("insert payment for session %s: %w", p.StripeSessionID, res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// A session first seen unpaid (delayed payment methods) is promoted once
	// a later delivery reports it paid. Paid rows never change.
	if p.PaymentStatus == StatusPaid {
		err := db.WithContext(ctx).
			Model(&Payment{}).
			Where("stripe_session_id = ? AND payment_status <> ?", p.StripeSessionID, StatusPaid).
			Update("payment_status", StatusPaid).Error
		if err != nil {
			return false, fmt.Errorf("mark session %s paid: %w", p.StripeSessionID, err)
		}
	}
	return false, nil
}

func FindBySession(ctx context.Context, db *gorm.DB, sessionID string) (*Payment, error) {
	var p Payment
	err := db.WithContext(ctx).Where("stripe_session_id = ?", sessionID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find payment for session %s: %w", sessionID, err)
	}
	return &p, nil
}

// HasPaid reports whether at least one payment exists for email.
func HasPaid(ctx context.Context, db *gorm.DB, email string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&Payment{}).
		Where("email = ?", users.NormalizeEmail(email)).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count payments: %w", err)
	}
	return n > 0, nil
}

// PaidEmails returns the subset of emails with at least one payment, keyed by
// normalized email.
func PaidEmails(ctx context.Context, db *gorm.DB, emails []string) (map[string]bool, error) {
	out := make(map[string]bool, len(emails))
	if len(emails) == 0 {
		return out, nil
	}

	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		normalized = append(normalized, users.NormalizeEmail(e))
	}

	var paid []string
	err := db.WithContext(ctx).
		Model(&Payment{}).
		Distinct("email").
		Where("email IN ?", normalized).
		Pluck("email", &paid).Error
	if err != nil {
		return nil, fmt.Errorf("load paid emails: %w", err)
	}
	for _, e := range paid {
		out[e] = true
	}
	return out, nil
}

func ListByEmail(ctx context.Context, db *gorm.DB, email string) ([]Payment, error) {
	var out []Payment
	err := db.WithContext(ctx).
		Where("email = ?", users.NormalizeEmail(email)).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

func ListAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]Payment, int64, error) {
	var (
		out   []Payment
		total int64
	)
	if err := db.WithContext(ctx).Model(&Payment{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	return out, total, nil
}

func EventProcessed(ctx context.Context, db *gorm.DB, eventID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&StripeEvent{}).
		Where("event_id = ?", eventID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("lookup stripe event %s: %w", eventID, err)
	}
	return n > 0, nil
}

func MarkEventProcessed(ctx context.Context, db *gorm.DB, eventID, eventType string) error {
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&StripeEvent{EventID: eventID, Type: eventType}).Error
	if err != nil {
		return fmt.Errorf("mark stripe event %s: %w", eventID, err)
	}
	return nil
}

package billing

import (
	"context"

	"blog-app/internal/domain/users"

	"gorm.io/gorm"
)

// PremiumCache remembers emails known to be premium. Premium status never
// reverts because payments are never deleted, so only positive answers are
// cached.
type PremiumCache interface {
	IsPremium(ctx context.Context, email string) (bool, error)
	MarkPremium(ctx context.Context, email string) error
}

// Ledger records payments and answers premium-status questions.
type Ledger struct {
	DB    *gorm.DB
	Cache PremiumCache

	// OnCacheError is called for cache failures, which never fail a request.
	OnCacheError func(ctx context.Context, op string, err error)
}

// Record stores p idempotently by checkout session and marks its email premium.
func (l *Ledger) Record(ctx context.Context, p *Payment) (bool, error) {
	created, err := InsertPayment(ctx, l.DB, p)
	if err != nil {
		return false, err
	}
	l.markPremium(ctx, p.Email)
	return created, nil
}

// IsPremium reports whether email has ever paid.
func (l *Ledger) IsPremium(ctx context.Context, email string) (bool, error) {
	email = users.NormalizeEmail(email)
	if l.Cache != nil {
		hit, err := l.Cache.IsPremium(ctx, email)
		if err != nil {
			l.cacheError(ctx, "get", err)
		} else if hit {
			return true, nil
		}
	}

	paid, err := HasPaid(ctx, l.DB, email)
	if err != nil {
		return false, err
	}
	if paid {
		l.markPremium(ctx, email)
	}
	return paid, nil
}

// PremiumEmails answers IsPremium for many emails with one query.
func (l *Ledger) PremiumEmails(ctx context.Context, emails []string) (map[string]bool, error) {
	return PaidEmails(ctx, l.DB, emails)
}

func (l *Ledger) markPremium(ctx context.Context, email string) {
	if l.Cache == nil || email == "" {
		return
	}
	if err := l.Cache.MarkPremium(ctx, email); err != nil {
		l.cacheError(ctx, "set", err)
	}
}

func (l *Ledger) cacheError(ctx context.Context, op string, err error) {
	if l.OnCacheError != nil {
		l.OnCacheError(ctx, op, err)
	}
}

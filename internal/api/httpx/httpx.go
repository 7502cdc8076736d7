// Package httpx holds helpers shared by the HTTP handlers.
package httpx

import (
	"context"
	"strconv"

	"blog-app/database"
	"blog-app/internal/domain/billing"
	"blog-app/internal/infra/cache"
	"blog-app/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Ledger returns the payments ledger bound to the global database and the
// premium cache, if one is configured.
func Ledger() *billing.Ledger {
	return &billing.Ledger{
		DB:    database.DB,
		Cache: cache.Premium,
		OnCacheError: func(ctx context.Context, op string, err error) {
			logger.Warn(ctx, "Premium cache unavailable", zap.String("op", op), zap.Error(err))
		},
	}
}

// Page reads limit and offset from the query string. Bad values fall back to
// the defaults and limit is capped at MaxLimit.
func Page(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset, err = strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

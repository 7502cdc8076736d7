package billing

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	premium map[string]bool
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{premium: map[string]bool{}}
}

func (f *fakeCache) IsPremium(_ context.Context, email string) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	return f.premium[email], nil
}

func (f *fakeCache) MarkPremium(_ context.Context, email string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.premium[email] = true
	return nil
}

var countPaymentsSQL = regexp.QuoteMeta(`SELECT count(*) FROM "payments"`)

func TestLedger_IsPremium_CacheHitSkipsDatabase(t *testing.T) {
	db, mock := setupMockDB(t)
	cache := newFakeCache()
	cache.premium["reader@example.com"] = true

	l := &Ledger{DB: db, Cache: cache}
	ok, err := l.IsPremium(context.Background(), "Reader@Example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedger_IsPremium_PositiveAnswerIsCached(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(countPaymentsSQL).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	cache := newFakeCache()
	l := &Ledger{DB: db, Cache: cache}
	ok, err := l.IsPremium(context.Background(), "reader@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, cache.premium["reader@example.com"])
}

func TestLedger_IsPremium_NegativeAnswerIsNotCached(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(countPaymentsSQL).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	cache := newFakeCache()
	l := &Ledger{DB: db, Cache: cache}
	ok, err := l.IsPremium(context.Background(), "reader@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, cache.premium)
}

func TestLedger_IsPremium_CacheFailureFallsBackToDatabase(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(countPaymentsSQL).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	var ops []string
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	l := &Ledger{DB: db, Cache: cache, OnCacheError: func(_ context.Context, op string, _ error) {
		ops = append(ops, op)
	}}

	ok, err := l.IsPremium(context.Background(), "reader@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"get", "set"}, ops)
}

func TestLedger_IsPremium_WithoutCache(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(countPaymentsSQL).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	l := &Ledger{DB: db}
	ok, err := l.IsPremium(context.Background(), "reader@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedger_RecordMarksPremiumEvenWhenDuplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(insertPaymentSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(promoteSessionSQL).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	cache := newFakeCache()
	l := &Ledger{DB: db, Cache: cache}
	created, err := l.Record(context.Background(), newPayment())
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, cache.premium["reader@example.com"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

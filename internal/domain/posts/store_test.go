package posts

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const postID = "4f6c2b8e-1d3a-4c59-9a8e-2f0d6b7c1e11"

var postColumns = []string{"id", "title", "description", "image_url", "image_key", "user_id", "user_email", "created_at", "updated_at"}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func postRow(ownerID uint) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(postColumns).
		AddRow(postID, "Title", "Body", "https://cdn.example.com/images/a.png", "images/a.png", ownerID, "owner@example.com", now, now)
}

func TestGet_InvalidIDIsNotFound(t *testing.T) {
	db, mock := setupMockDB(t)

	p, err := Get(context.Background(), db, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WillReturnRows(sqlmock.NewRows(postColumns))

	p, err := Get(context.Background(), db, postID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_Found(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WillReturnRows(postRow(3))

	p, err := Get(context.Background(), db, postID)
	require.NoError(t, err)
	assert.Equal(t, "Title", p.Title)
	assert.Equal(t, uint(3), p.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(postID))
	mock.ExpectCommit()

	p := &Post{Title: "t", Description: "d", UserID: 1, UserEmail: "a@b.co"}
	require.NoError(t, Create(context.Background(), db, p))
	assert.Equal(t, postID, p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContent_ByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WillReturnRows(postRow(3))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := UpdateContent(context.Background(), db, postID, 3, Content{Title: "New", Description: "Text"})
	require.NoError(t, err)
	assert.Equal(t, "New", p.Title)
	assert.Equal(t, "Text", p.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContent_NotOwnerIsRejected(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WillReturnRows(postRow(3))
	mock.ExpectRollback()

	p, err := UpdateContent(context.Background(), db, postID, 4, Content{Title: "New", Description: "Text"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_ByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WillReturnRows(postRow(3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := Delete(context.Background(), db, postID, 3)
	require.NoError(t, err)
	require.NotNil(t, p.ImageKey)
	assert.Equal(t, "images/a.png", *p.ImageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotOwnerIsRejected(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WillReturnRows(postRow(3))
	mock.ExpectRollback()

	_, err := Delete(context.Background(), db, postID, 99)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WillReturnRows(sqlmock.NewRows(postColumns))
	mock.ExpectRollback()

	_, err := Delete(context.Background(), db, postID, 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE user_id = $1 ORDER BY created_at DESC`)).
		WithArgs(3).
		WillReturnRows(postRow(3))

	out, err := ListByUser(context.Background(), db, 3)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

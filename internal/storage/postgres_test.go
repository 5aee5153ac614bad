package storage

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedStorage(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStorage(db, ""), mock
}

func TestPostgresGetAllGrams(t *testing.T) {
	s, mock := newMockedStorage(t)

	rows := sqlmock.NewRows([]string{"id", "message", "picture", "user_id", "created_at"}).
		AddRow("g1", "Hello!", "", "u1", time.Now()).
		AddRow("g2", "Second", "/uploads/p.png", "u2", time.Now())
	mock.ExpectQuery("SELECT id, message, picture, user_id, created_at FROM grams ORDER BY created_at DESC").
		WillReturnRows(rows)

	grams, err := s.GetAllGrams()

	assert.NoError(t, err)
	assert.Len(t, grams, 2)
	assert.Equal(t, "Hello!", grams[0].Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetGramByID_NotFound(t *testing.T) {
	s, mock := newMockedStorage(t)

	mock.ExpectQuery("SELECT id, message, picture, user_id, created_at FROM grams WHERE id=$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "message", "picture", "user_id", "created_at"}))

	gram, err := s.GetGramByID("missing")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, gram)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAddGram(t *testing.T) {
	s, mock := newMockedStorage(t)

	mock.ExpectExec("INSERT INTO grams (id, message, picture, user_id, created_at) VALUES ($1, $2, $3, $4, $5)").
		WithArgs(sqlmock.AnyArg(), "Hello!", "", "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	gram, err := s.AddGram("u1", "Hello!", "")

	assert.NoError(t, err)
	assert.NotEmpty(t, gram.ID)
	assert.Equal(t, "u1", gram.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateGram_NotFound(t *testing.T) {
	s, mock := newMockedStorage(t)

	mock.ExpectExec("UPDATE grams SET message=$1, picture=$2 WHERE id=$3").
		WithArgs("Changed", "", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	gram, err := s.UpdateGram("missing", "Changed", "")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, gram)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteGram(t *testing.T) {
	s, mock := newMockedStorage(t)

	mock.ExpectExec("DELETE FROM grams WHERE id=$1").
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.DeleteGram("g1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAddComment_NoGram(t *testing.T) {
	s, mock := newMockedStorage(t)

	mock.ExpectQuery("SELECT EXISTS(SELECT 1 FROM grams WHERE id=$1)").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	comment, err := s.AddComment("missing", "u1", "test comment")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, comment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAddComment_Success(t *testing.T) {
	s, mock := newMockedStorage(t)

	mock.ExpectQuery("SELECT EXISTS(SELECT 1 FROM grams WHERE id=$1)").
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("INSERT INTO comments (id, gram_id, user_id, message, created_at) VALUES ($1, $2, $3, $4, $5)").
		WithArgs(sqlmock.AnyArg(), "g1", "u1", "test comment", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("SELECT pg_notify($1, $2)").
		WithArgs(commentsChannel, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	comment, err := s.AddComment("g1", "u1", "test comment")

	assert.NoError(t, err)
	assert.Equal(t, "g1", comment.GramID)
	assert.Equal(t, "test comment", comment.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

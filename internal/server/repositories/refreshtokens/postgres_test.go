package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var digest = []byte{0xde, 0xad, 0xbe, 0xef}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+refresh_tokens\s*\(user_id,\s*token_hash,\s*expires_at\)`).
		WithArgs("u1", digest, exp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), "u1", digest, exp))

	mock.ExpectExec(`INSERT\s+INTO\s+refresh_tokens`).WillReturnError(errors.New("db down"))
	err := repo.Create(context.Background(), "u1", digest, exp)
	assert.ErrorContains(t, err, "insert refresh token: db down")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFind(t *testing.T) {
	q := `(?s)^SELECT\s+id,\s*user_id,\s*token_hash,\s*expires_at,\s*created_at\s+FROM\s+refresh_tokens\s+WHERE\s+token_hash\s*=\s*\$1$`
	exp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(digest).WillReturnRows(
			sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at"}).
				AddRow("rt1", "u1", digest, exp, exp.Add(-time.Hour)))

		got, err := repo.Find(context.Background(), digest)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, exp, got.ExpiresAt)
		assert.False(t, got.Expired(exp))
		assert.True(t, got.Expired(exp.Add(time.Second)))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(digest).WillReturnError(sql.ErrNoRows)

		_, err := repo.Find(context.Background(), digest)
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs(digest).WillReturnError(errors.New("boom"))

		_, err := repo.Find(context.Background(), digest)
		assert.ErrorContains(t, err, "select refresh token: boom")
		assert.NotErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestConsume(t *testing.T) {
	q := `^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token_hash\s*=\s*\$1$`
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(q).WithArgs(digest).WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.Consume(context.Background(), digest)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(q).WithArgs(digest).WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.Consume(context.Background(), digest)
	require.NoError(t, err)
	assert.False(t, ok, "already rotated by someone else")

	mock.ExpectExec(q).WillReturnError(errors.New("boom"))
	_, err = repo.Consume(context.Background(), digest)
	assert.Error(t, err)

	mock.ExpectExec(q).WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))
	_, err = repo.Consume(context.Background(), digest)
	assert.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+user_id\s*=\s*\$1$`

	mock.ExpectExec(q).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 3))
	require.NoError(t, repo.DeleteByUser(context.Background(), "u1"))

	mock.ExpectExec(q).WithArgs("u1").WillReturnError(errors.New("boom"))
	assert.Error(t, repo.DeleteByUser(context.Background(), "u1"))
}

func TestPurgeExpired(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q := `^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+expires_at\s*<\s*\$1$`

	mock.ExpectExec(q).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 4))
	n, err := repo.PurgeExpired(context.Background(), now)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	mock.ExpectExec(q).WithArgs(now).WillReturnError(errors.New("boom"))
	_, err = repo.PurgeExpired(context.Background(), now)
	assert.Error(t, err)
}

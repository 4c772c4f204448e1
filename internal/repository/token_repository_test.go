package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const verifyQuery = "SELECT user_id FROM user_access_token WHERE token = ? LIMIT 1"

func newTokenRepo(t *testing.T) (*TokenRepo, sqlmock.Sqlmock, *observer.ObservedLogs) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	core, logs := observer.New(zap.InfoLevel)
	repo, err := NewTokenRepo(db, "user_access_token", zap.New(core))
	require.NoError(t, err)
	return repo, mock, logs
}

func TestTokenRepo_VerifyKnownToken(t *testing.T) {
	repo, mock, _ := newTokenRepo(t)
	mock.ExpectQuery(verifyQuery).
		WithArgs("tok-123").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))

	userID, ok := repo.Verify(context.Background(), "tok-123")

	assert.True(t, ok)
	assert.Equal(t, "u1", userID)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Zero(t, repo.DB.Stats().InUse, "connection must be released")
}

func TestTokenRepo_VerifyUnknownToken(t *testing.T) {
	repo, mock, logs := newTokenRepo(t)
	mock.ExpectQuery(verifyQuery).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	userID, ok := repo.Verify(context.Background(), "nope")

	assert.False(t, ok)
	assert.Empty(t, userID)
	assert.Zero(t, logs.Len(), "a missing token is not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Zero(t, repo.DB.Stats().InUse, "connection must be released")
}

func TestTokenRepo_VerifyQueryFailure(t *testing.T) {
	repo, mock, logs := newTokenRepo(t)
	mock.ExpectQuery(verifyQuery).
		WithArgs("tok-123").
		WillReturnError(errors.New("connection reset"))

	userID, ok := repo.Verify(context.Background(), "tok-123")

	assert.False(t, ok)
	assert.Empty(t, userID)
	assert.Equal(t, 1, logs.FilterMessage("verify access token").Len())
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Zero(t, repo.DB.Stats().InUse, "connection must be released")
}

func TestTokenRepo_VerifyEmptyTokenSkipsQuery(t *testing.T) {
	repo, mock, _ := newTokenRepo(t)

	_, ok := repo.Verify(context.Background(), "")

	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_InjectionIsBoundNotInterpolated(t *testing.T) {
	repo, mock, _ := newTokenRepo(t)
	evil := "x' OR '1'='1"
	mock.ExpectQuery(verifyQuery).
		WithArgs(evil).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, ok := repo.Verify(context.Background(), evil)

	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewTokenRepo_RejectsBadTableName(t *testing.T) {
	for _, name := range []string{"", "tokens; DROP TABLE users", "1tokens", "a-b"} {
		_, err := NewTokenRepo(nil, name, zap.NewNop())
		assert.Error(t, err, name)
	}
}

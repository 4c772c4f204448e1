package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/iliyamo/assistant-threads/internal/model"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// TokenRepo resolves opaque bearer tokens to user ids through the access
// token table.  Results are never cached; every request verifies again.
type TokenRepo struct {
	DB     *sql.DB
	query  string
	logger *zap.Logger
}

// NewTokenRepo returns a repo reading from table.  The table name is the only
// part of the query not passed as a bound parameter, so it must be a plain
// identifier.
func NewTokenRepo(db *sql.DB, table string, logger *zap.Logger) (*TokenRepo, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid token table name %q", table)
	}
	return &TokenRepo{
		DB:     db,
		query:  "SELECT user_id FROM " + table + " WHERE token = ? LIMIT 1",
		logger: logger,
	}, nil
}

// Verify returns the owner of token.  ok is false when no row matches or the
// lookup fails for any reason; failures are logged, not retried.  A
// dedicated connection is held for the single query and released on every
// path.
func (r *TokenRepo) Verify(ctx context.Context, token string) (userID string, ok bool) {
	if token == "" {
		return "", false
	}

	conn, err := r.DB.Conn(ctx)
	if err != nil {
		r.logger.Error("acquire token store connection", zap.Error(err))
		return "", false
	}
	defer func() {
		if err := conn.Close(); err != nil {
			r.logger.Warn("release token store connection", zap.Error(err))
		}
	}()

	row := model.AccessToken{Token: token}
	err = conn.QueryRowContext(ctx, r.query, row.Token).Scan(&row.UserID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false
	case err != nil:
		r.logger.Error("verify access token", zap.Error(err))
		return "", false
	}
	return row.UserID, true
}

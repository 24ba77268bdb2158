package auth_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
	"facture/internal/domain/auth"
	"facture/internal/infrastructure/storage/postgres"
)

var _ auth.TokenRepository = (*TokenRepo)(nil)

var tokenCols = postgres.ExtractDBColumns[auth.RefreshToken]()

// TokenRepo is the PostgreSQL repository for refresh tokens.
type TokenRepo struct {
	txManager *postgres.TxManager
}

// NewTokenRepo creates a token repository.
func NewTokenRepo(txManager *postgres.TxManager) *TokenRepo {
	return &TokenRepo{txManager: txManager}
}

func (r *TokenRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a refresh token.
func (r *TokenRepo) Create(ctx context.Context, t *auth.RefreshToken) error {
	fields := postgres.StructToMap(t)

	q := r.builder().Insert("refresh_tokens").SetMap(fields)
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapWriteError(fmt.Errorf("insert token: %w", err), "refresh_token")
	}
	return nil
}

// GetByHash retrieves a token by its hash.
func (r *TokenRepo) GetByHash(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	q := r.builder().
		Select(tokenCols...).
		From("refresh_tokens").
		Where(squirrel.Eq{"token_hash": tokenHash}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t auth.RefreshToken
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("refresh_token", "")
		}
		return nil, fmt.Errorf("get token: %w", err)
	}
	return &t, nil
}

// Revoke marks a token revoked.
func (r *TokenRepo) Revoke(ctx context.Context, tokenID id.ID) error {
	q := r.builder().
		Update("refresh_tokens").
		Set("revoked_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": tokenID, "revoked_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeAllForUser revokes every active token of a user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID id.ID) error {
	q := r.builder().
		Update("refresh_tokens").
		Set("revoked_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"user_id": userID, "revoked_at": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

// DeleteExpired removes tokens past their expiry and returns the number
// deleted. Meant for a periodic cleanup job.
func (r *TokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	q := r.builder().
		Delete("refresh_tokens").
		Where(squirrel.Expr("expires_at < now()"))

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return result.RowsAffected(), nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ledger-service/internal/domain"
)

// TokenRepository reads stored machine tokens. Tokens are created by account
// management flows; the authenticator only ever lists them.
//
// ByAdmin returns the reserved admin bucket (tokens bound to no account).
// Both listings preserve creation order so the first stored match wins.
type TokenRepository interface {
	ByAccount(ctx context.Context, accountID string) ([]domain.Token, error)
	ByAdmin(ctx context.Context) ([]domain.Token, error)
}

type tokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository returns a Postgres-backed implementation.
func NewTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &tokenRepository{pool: pool}
}

func (r *tokenRepository) ByAccount(ctx context.Context, accountID string) ([]domain.Token, error) {
	const query = `
        SELECT id, account_id, token_hash, expiration, created_at
        FROM tokens WHERE account_id=$1 ORDER BY created_at`

	return r.list(ctx, query, accountID)
}

func (r *tokenRepository) ByAdmin(ctx context.Context) ([]domain.Token, error) {
	const query = `
        SELECT id, account_id, token_hash, expiration, created_at
        FROM tokens WHERE account_id IS NULL ORDER BY created_at`

	return r.list(ctx, query)
}

func (r *tokenRepository) list(ctx context.Context, query string, args ...any) ([]domain.Token, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.Token
	for rows.Next() {
		var token domain.Token
		if err := rows.Scan(
			&token.ID,
			&token.AccountID,
			&token.TokenHash,
			&token.Expiration,
			&token.CreatedAt,
		); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

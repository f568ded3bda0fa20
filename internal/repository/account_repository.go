package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ledger-service/internal/domain"
)

// AccountRepository resolves accounts and their authorization roles. It is
// the read-only account lookup consumed by the authenticators.
//
// GetByName returns (nil, nil) when no account carries the name; GetByKey and
// GetByID fail with pgx.ErrNoRows instead, which the error mapper translates
// to the NotFound taxonomy entry.
type AccountRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Account, error)
	GetByKey(ctx context.Context, key string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetRoles(ctx context.Context, accountID string) ([]string, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	const query = `
        SELECT id, name, key, is_disabled, is_admin, created_at, updated_at
        FROM accounts WHERE name=$1`

	account, err := r.scanAccount(ctx, query, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return account, err
}

func (r *accountRepository) GetByKey(ctx context.Context, key string) (*domain.Account, error) {
	const query = `
        SELECT id, name, key, is_disabled, is_admin, created_at, updated_at
        FROM accounts WHERE key=$1`

	return r.scanAccount(ctx, query, key)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, name, key, is_disabled, is_admin, created_at, updated_at
        FROM accounts WHERE id=$1`

	return r.scanAccount(ctx, query, id)
}

func (r *accountRepository) GetRoles(ctx context.Context, accountID string) ([]string, error) {
	const query = `
        SELECT role FROM account_roles WHERE account_id=$1 ORDER BY role`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *accountRepository) scanAccount(ctx context.Context, query, arg string) (*domain.Account, error) {
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Name,
		&account.Key,
		&account.IsDisabled,
		&account.IsAdmin,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

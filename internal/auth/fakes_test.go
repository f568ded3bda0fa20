package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/ledger-service/internal/domain"
)

// fakeAccountRepo implements repository.AccountRepository in memory.
type fakeAccountRepo struct {
	byName map[string]*domain.Account
	byKey  map[string]*domain.Account
	byID   map[string]*domain.Account
	roles  map[string][]string

	nameErr  error
	idErr    error
	rolesErr error

	byNameCalls int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byName: map[string]*domain.Account{},
		byKey:  map[string]*domain.Account{},
		byID:   map[string]*domain.Account{},
		roles:  map[string][]string{},
	}
}

func (f *fakeAccountRepo) add(account *domain.Account, roles ...string) {
	f.byName[account.Name] = account
	f.byKey[account.Key] = account
	f.byID[account.ID] = account
	f.roles[account.ID] = roles
}

func (f *fakeAccountRepo) GetByName(_ context.Context, name string) (*domain.Account, error) {
	f.byNameCalls++
	if f.nameErr != nil {
		return nil, f.nameErr
	}
	return f.byName[name], nil
}

func (f *fakeAccountRepo) GetByKey(_ context.Context, key string) (*domain.Account, error) {
	account, ok := f.byKey[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if f.idErr != nil {
		return nil, f.idErr
	}
	account, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

func (f *fakeAccountRepo) GetRoles(_ context.Context, accountID string) ([]string, error) {
	if f.rolesErr != nil {
		return nil, f.rolesErr
	}
	return f.roles[accountID], nil
}

// fakeTokenRepo implements repository.TokenRepository in memory.
type fakeTokenRepo struct {
	accountTokens map[string][]domain.Token
	adminTokens   []domain.Token
	err           error
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{accountTokens: map[string][]domain.Token{}}
}

func (f *fakeTokenRepo) ByAccount(_ context.Context, accountID string) ([]domain.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.accountTokens[accountID], nil
}

func (f *fakeTokenRepo) ByAdmin(_ context.Context) ([]domain.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.adminTokens, nil
}

var errLookupTimeout = errors.New("lookup timed out")

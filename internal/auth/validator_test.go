package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ledger-service/internal/config"
	"github.com/spec-kit/ledger-service/internal/domain"
)

func mustHash(t *testing.T, token string) string {
	t.Helper()
	hashed, err := HashToken(token, bcrypt.MinCost)
	require.NoError(t, err)
	return hashed
}

func newValidator(accounts *fakeAccountRepo, tokens *fakeTokenRepo, cfg config.AuthConfig) *TokenValidator {
	return NewTokenValidator(cfg, accounts, tokens)
}

func testAccount() *domain.Account {
	id := uuid.NewString()
	return &domain.Account{ID: id, Name: "dfsp1", Key: "dfsp1-key", CreatedAt: time.Now()}
}

func TestValidateRequiresHeader(t *testing.T) {
	v := newValidator(newFakeAccountRepo(), newFakeTokenRepo(), config.AuthConfig{})

	_, err := v.Validate(context.Background(), "", "bearer")
	require.ErrorIs(t, err, ErrAPIKeyRequired)
	require.EqualError(t, err, `"Ledger-Api-Key" header is required`)
}

func TestValidateUnknownName(t *testing.T) {
	v := newValidator(newFakeAccountRepo(), newFakeTokenRepo(), config.AuthConfig{})

	_, err := v.Validate(context.Background(), "nobody", "bearer")
	require.ErrorIs(t, err, ErrAPIKeyNotValid)
	require.EqualError(t, err, `"Ledger-Api-Key" header is not valid`)
}

func TestValidateLookupFailureIndistinguishableFromUnknown(t *testing.T) {
	accounts := newFakeAccountRepo()
	accounts.nameErr = errLookupTimeout
	v := newValidator(accounts, newFakeTokenRepo(), config.AuthConfig{})

	_, err := v.Validate(context.Background(), "dfsp1", "bearer")
	require.ErrorIs(t, err, ErrAPIKeyNotValid)
}

func TestValidateNoTokens(t *testing.T) {
	accounts := newFakeAccountRepo()
	accounts.add(testAccount())
	v := newValidator(accounts, newFakeTokenRepo(), config.AuthConfig{})

	verdict, err := v.Validate(context.Background(), "dfsp1", "bearer")
	require.NoError(t, err)
	require.False(t, verdict.IsValid())
	require.Nil(t, verdict.Credentials())
}

func TestValidateNoMatchingToken(t *testing.T) {
	accounts := newFakeAccountRepo()
	account := testAccount()
	accounts.add(account)

	tokens := newFakeTokenRepo()
	tokens.accountTokens[account.ID] = []domain.Token{
		{TokenHash: mustHash(t, "other-1"), CreatedAt: time.Now()},
		{TokenHash: mustHash(t, "other-2"), CreatedAt: time.Now()},
	}
	v := newValidator(accounts, tokens, config.AuthConfig{})

	verdict, err := v.Validate(context.Background(), "dfsp1", "bearer")
	require.NoError(t, err)
	require.False(t, verdict.IsValid())
	require.Nil(t, verdict.Credentials())
}

func TestValidateMatchingTokenPasses(t *testing.T) {
	accounts := newFakeAccountRepo()
	account := testAccount()
	accounts.add(account)

	// the match sits last so an early mismatch must not short-circuit it away
	tokens := newFakeTokenRepo()
	tokens.accountTokens[account.ID] = []domain.Token{
		{TokenHash: mustHash(t, "bad-token-1"), CreatedAt: time.Now()},
		{TokenHash: mustHash(t, "bad-token-2"), CreatedAt: time.Now()},
		{TokenHash: mustHash(t, "bearer"), CreatedAt: time.Now()},
	}
	v := newValidator(accounts, tokens, config.AuthConfig{})

	verdict, err := v.Validate(context.Background(), "dfsp1", "bearer")
	require.NoError(t, err)
	require.True(t, verdict.IsValid())
	require.NotNil(t, verdict.Credentials())
	require.Equal(t, account.ID, verdict.Credentials().AccountID)
	require.Equal(t, account.Name, verdict.Credentials().Name)
}

func TestValidateExpiredTokenAttachesCredentials(t *testing.T) {
	accounts := newFakeAccountRepo()
	account := testAccount()
	accounts.add(account)

	expiration := int64(1)
	tokens := newFakeTokenRepo()
	tokens.accountTokens[account.ID] = []domain.Token{
		{TokenHash: mustHash(t, "bearer"), Expiration: &expiration, CreatedAt: time.Now()},
	}
	v := newValidator(accounts, tokens, config.AuthConfig{})

	verdict, err := v.Validate(context.Background(), "dfsp1", "bearer")
	require.NoError(t, err)
	require.False(t, verdict.IsValid())
	require.NotNil(t, verdict.Credentials())
	require.Equal(t, account.ID, verdict.Credentials().AccountID)
}

func TestValidateExpirationWindow(t *testing.T) {
	accounts := newFakeAccountRepo()
	account := testAccount()
	accounts.add(account)

	tokens := newFakeTokenRepo()
	tokens.accountTokens[account.ID] = []domain.Token{
		{TokenHash: mustHash(t, "bearer"), CreatedAt: time.Now().Add(-time.Hour)},
	}
	v := newValidator(accounts, tokens, config.AuthConfig{TokenExpirationSeconds: 60})

	verdict, err := v.Validate(context.Background(), "dfsp1", "bearer")
	require.NoError(t, err)
	require.False(t, verdict.IsValid())
	require.NotNil(t, verdict.Credentials())

	// a fresh token stays inside the window
	tokens.accountTokens[account.ID][0].CreatedAt = time.Now()
	verdict, err = v.Validate(context.Background(), "dfsp1", "bearer")
	require.NoError(t, err)
	require.True(t, verdict.IsValid())
}

func TestValidateAdminKeyMatch(t *testing.T) {
	accounts := newFakeAccountRepo()
	tokens := newFakeTokenRepo()
	tokens.adminTokens = []domain.Token{
		{TokenHash: mustHash(t, "wrong"), CreatedAt: time.Now()},
		{TokenHash: mustHash(t, "bearer"), CreatedAt: time.Now()},
	}
	v := newValidator(accounts, tokens, config.AuthConfig{AdminKey: "admin-key"})

	verdict, err := v.Validate(context.Background(), "admin-key", "bearer")
	require.NoError(t, err)
	require.True(t, verdict.IsValid())
	require.NotNil(t, verdict.Credentials())
	require.True(t, verdict.Credentials().IsAdmin)
	require.Empty(t, verdict.Credentials().AccountID)
	require.Zero(t, accounts.byNameCalls, "admin path must not resolve accounts by name")
}

func TestValidateAdminKeyNoMatchingToken(t *testing.T) {
	tokens := newFakeTokenRepo()
	tokens.adminTokens = []domain.Token{
		{TokenHash: mustHash(t, "wrong"), CreatedAt: time.Now()},
	}
	v := newValidator(newFakeAccountRepo(), tokens, config.AuthConfig{AdminKey: "admin-key"})

	verdict, err := v.Validate(context.Background(), "admin-key", "bearer")
	require.NoError(t, err)
	require.False(t, verdict.IsValid())
	require.Nil(t, verdict.Credentials())
}

func TestValidateAdminAccountWithoutAdminKey(t *testing.T) {
	accounts := newFakeAccountRepo()
	account := testAccount()
	account.IsAdmin = true
	accounts.add(account)

	v := newValidator(accounts, newFakeTokenRepo(), config.AuthConfig{AdminKey: "admin-key"})

	_, err := v.Validate(context.Background(), "dfsp1", "bearer")
	require.ErrorIs(t, err, ErrAPIKeyNotValid)
}

func TestValidateAdminAccountWhenNoAdminKeyConfigured(t *testing.T) {
	accounts := newFakeAccountRepo()
	account := testAccount()
	account.IsAdmin = true
	accounts.add(account)

	tokens := newFakeTokenRepo()
	tokens.accountTokens[account.ID] = []domain.Token{
		{TokenHash: mustHash(t, "bearer"), CreatedAt: time.Now()},
	}
	v := newValidator(accounts, tokens, config.AuthConfig{})

	verdict, err := v.Validate(context.Background(), "dfsp1", "bearer")
	require.NoError(t, err)
	require.True(t, verdict.IsValid())
}

func TestVerdictConstructors(t *testing.T) {
	credentials := &domain.Credentials{AccountID: "a", Name: "n"}

	valid := Valid(credentials)
	require.True(t, valid.IsValid())
	require.Equal(t, credentials, valid.Credentials())

	denied := Denied(nil)
	require.False(t, denied.IsValid())
	require.Nil(t, denied.Credentials())

	deniedWith := Denied(credentials)
	require.False(t, deniedWith.IsValid())
	require.Equal(t, credentials, deniedWith.Credentials())
}

package auth

import (
	"context"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/ledger-service/internal/domain"
	"github.com/spec-kit/ledger-service/internal/repository"
	apperrors "github.com/spec-kit/ledger-service/pkg/util"
)

// ErrInvalidToken is the single outcome for every session verification
// failure. Forged signatures, wrong algorithms, wrong issuers, elapsed expiry
// and deleted accounts are indistinguishable to the caller.
var ErrInvalidToken = apperrors.NewUnauthorized("Invalid token")

// SessionManager issues and verifies signed session credentials.
type SessionManager struct {
	secret   []byte
	issuer   string
	ttl      time.Duration
	accounts repository.AccountRepository
}

// NewSessionManager builds a new manager.
func NewSessionManager(secret, issuer string, lifetimeSeconds int, accounts repository.AccountRepository) *SessionManager {
	if lifetimeSeconds <= 0 {
		lifetimeSeconds = 3600
	}
	return &SessionManager{
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      time.Duration(lifetimeSeconds) * time.Second,
		accounts: accounts,
	}
}

// sessionClaims describes the signed payload.
type sessionClaims struct {
	AccountID string `json:"accountId"`
	jwt.RegisteredClaims
}

// Identity couples a verified account with its authorization roles.
type Identity struct {
	Account *domain.Account
	Roles   []string
}

// IssuedCredential is a freshly signed session credential.
type IssuedCredential struct {
	Token     string
	ExpiresAt time.Time
	AccountID string
}

// Issue resolves the supplied plaintext key to an account and signs a
// time-limited session credential for it. Fails with NotFound when the key
// does not resolve.
func (m *SessionManager) Issue(ctx context.Context, key string) (*IssuedCredential, error) {
	account, err := m.accounts.GetByKey(ctx, key)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("account", nil)
		}
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(m.ttl)
	claims := &sessionClaims{
		AccountID: account.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedCredential{Token: signed, ExpiresAt: expiresAt, AccountID: account.ID}, nil
}

// Verify checks the credential's signature, algorithm, issuer and expiry,
// then resolves the embedded account and its roles concurrently. Every
// failure collapses to ErrInvalidToken.
func (m *SessionManager) Verify(ctx context.Context, signed string) (*Identity, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(signed, claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || claims.AccountID == "" {
		return nil, ErrInvalidToken
	}

	var (
		account *domain.Account
		roles   []string
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		resolved, err := m.accounts.GetByID(groupCtx, claims.AccountID)
		if err != nil {
			return err
		}
		account = resolved
		return nil
	})
	group.Go(func() error {
		resolved, err := m.accounts.GetRoles(groupCtx, claims.AccountID)
		if err != nil {
			return err
		}
		roles = resolved
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{Account: account, Roles: roles}, nil
}

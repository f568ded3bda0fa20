package auth

import (
	"context"
	"crypto/subtle"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/ledger-service/internal/config"
	"github.com/spec-kit/ledger-service/internal/domain"
	"github.com/spec-kit/ledger-service/internal/repository"
	apperrors "github.com/spec-kit/ledger-service/pkg/util"
)

// HeaderAPIKey identifies the calling account on machine-to-machine requests.
const HeaderAPIKey = "Ledger-Api-Key"

// Structural failures of the Ledger-Api-Key scheme. Unknown names, disabled
// admin routes and lookup timeouts all collapse to ErrAPIKeyNotValid; a caller
// cannot probe which of them occurred.
var (
	ErrAPIKeyRequired = apperrors.NewUnauthorized(`"Ledger-Api-Key" header is required`)
	ErrAPIKeyNotValid = apperrors.NewUnauthorized(`"Ledger-Api-Key" header is not valid`)
)

// RequestValidator yields a verdict for one machine authentication attempt.
// Structural header failures return an error; everything else is a verdict.
type RequestValidator interface {
	Validate(ctx context.Context, apiKey, bearer string) (Verdict, error)
}

// TokenValidator authenticates machine-to-machine requests from an API-key
// header and a bearer token. It holds no mutable state; concurrent calls are
// independent.
type TokenValidator struct {
	accounts repository.AccountRepository
	tokens   repository.TokenRepository
	adminKey string
	window   time.Duration
	now      func() time.Time
}

// NewTokenValidator builds a validator from configuration and lookups.
func NewTokenValidator(cfg config.AuthConfig, accounts repository.AccountRepository, tokens repository.TokenRepository) *TokenValidator {
	return &TokenValidator{
		accounts: accounts,
		tokens:   tokens,
		adminKey: cfg.AdminKey,
		window:   cfg.TokenExpiration(),
		now:      time.Now,
	}
}

// Validate applies the decision table in order: header presence, admin
// bypass, account resolution, admin-only mismatch, token listing, hash
// comparison, expiry. The admin path never resolves accounts by name.
func (v *TokenValidator) Validate(ctx context.Context, apiKey, bearer string) (Verdict, error) {
	if apiKey == "" {
		return Verdict{}, ErrAPIKeyRequired
	}

	if v.adminKey != "" && subtle.ConstantTimeCompare([]byte(apiKey), []byte(v.adminKey)) == 1 {
		return v.validateAdmin(ctx, bearer)
	}

	account, err := v.accounts.GetByName(ctx, apiKey)
	if err != nil || account == nil {
		return Verdict{}, ErrAPIKeyNotValid
	}
	if v.adminKey != "" && account.IsAdmin {
		// admin accounts must present the admin key, which the header did not
		// match above
		return Verdict{}, ErrAPIKeyNotValid
	}

	tokens, err := v.tokens.ByAccount(ctx, account.ID)
	if err != nil {
		return Verdict{}, apperrors.MapError(err)
	}
	if len(tokens) == 0 {
		return Denied(nil), nil
	}

	match, err := v.firstMatch(ctx, bearer, tokens)
	if err != nil {
		return Verdict{}, apperrors.MapError(err)
	}
	if match == nil {
		return Denied(nil), nil
	}

	credentials := domain.AccountCredentials(account)
	if v.isExpired(*match) {
		return Denied(credentials), nil
	}
	return Valid(credentials), nil
}

func (v *TokenValidator) validateAdmin(ctx context.Context, bearer string) (Verdict, error) {
	tokens, err := v.tokens.ByAdmin(ctx)
	if err != nil {
		return Verdict{}, apperrors.MapError(err)
	}
	if len(tokens) == 0 {
		return Denied(nil), nil
	}

	match, err := v.firstMatch(ctx, bearer, tokens)
	if err != nil {
		return Verdict{}, apperrors.MapError(err)
	}
	if match == nil {
		return Denied(nil), nil
	}
	return Valid(domain.AdminCredentials()), nil
}

// firstMatch compares the bearer against every candidate. All candidates are
// checked; a mismatch never short-circuits a later match out of the set. Ties
// resolve to store order.
func (v *TokenValidator) firstMatch(ctx context.Context, bearer string, tokens []domain.Token) (*domain.Token, error) {
	matches := make([]bool, len(tokens))

	group, _ := errgroup.WithContext(ctx)
	for i := range tokens {
		i := i
		group.Go(func() error {
			ok, err := VerifyHash(bearer, tokens[i].TokenHash)
			if err != nil {
				return err
			}
			matches[i] = ok
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	for i := range tokens {
		if matches[i] {
			return &tokens[i], nil
		}
	}
	return nil, nil
}

// isExpired applies both expiry rules: the token's own epoch-seconds
// expiration when present, and the configured lifetime window measured from
// creation. Either elapsing denies the request.
func (v *TokenValidator) isExpired(token domain.Token) bool {
	now := v.now()
	if token.Expiration != nil && now.Unix() > *token.Expiration {
		return true
	}
	if v.window > 0 && now.Sub(token.CreatedAt) > v.window {
		return true
	}
	return false
}

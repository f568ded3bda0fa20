package auth

import "github.com/spec-kit/ledger-service/internal/domain"

// Verdict is the terminal outcome of one machine authentication attempt:
// valid with credentials, denied with credentials (matched but stale token),
// or denied without credentials. Valid verdicts always carry credentials.
type Verdict struct {
	valid       bool
	credentials *domain.Credentials
}

// Valid builds a verdict authenticating the given caller.
func Valid(credentials *domain.Credentials) Verdict {
	return Verdict{valid: true, credentials: credentials}
}

// Denied builds a failing verdict. Credentials may be nil; they are attached
// when the bearer matched a token that had already expired, so callers can
// still see whose token was presented.
func Denied(credentials *domain.Credentials) Verdict {
	return Verdict{credentials: credentials}
}

// IsValid reports whether the attempt authenticated the caller.
func (v Verdict) IsValid() bool {
	return v.valid
}

// Credentials returns the caller attached to the verdict, nil for anonymous
// denials.
func (v Verdict) Credentials() *domain.Credentials {
	return v.credentials
}

package domain

import "time"

// Account is a ledger participant that can hold machine tokens and log in
// with a session credential. The authenticator only ever reads accounts;
// account management lives elsewhere.
type Account struct {
	ID         string
	Name       string
	Key        string
	IsDisabled bool
	IsAdmin    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

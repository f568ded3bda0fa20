package domain

import "time"

// Token is a stored machine credential. Only the bcrypt hash of the bearer
// value is persisted. A nil AccountID marks a token in the reserved admin
// bucket, which is not tied to any real account.
type Token struct {
	ID         string
	AccountID  *string
	TokenHash  string
	Expiration *int64
	CreatedAt  time.Time
}

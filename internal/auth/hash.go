package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashToken hashes a plaintext bearer token with configured cost.
func HashToken(token string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyHash compares a plaintext credential against its stored bcrypt hash.
// A mismatch is a regular false result, not an error; only a malformed stored
// hash fails. bcrypt keeps the comparison constant-time.
func VerifyHash(plaintext, storedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

package dto

import "time"

// IssueTokenRequest payload for session credential issuance.
type IssueTokenRequest struct {
	Key string `json:"key"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IdentityResponse describes a verified session identity.
type IdentityResponse struct {
	Account AccountResponse `json:"account"`
	Roles   []string        `json:"roles"`
}

// AccountResponse is the external view of an account.
type AccountResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsDisabled bool   `json:"is_disabled"`
	IsAdmin    bool   `json:"is_admin"`
}

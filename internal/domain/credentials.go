package domain

// Credentials identifies the caller attached to an authentication verdict.
// The admin principal is synthetic and carries no account identifier.
type Credentials struct {
	AccountID string `json:"account_id,omitempty"`
	Name      string `json:"name,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
}

// AccountCredentials derives credentials from a resolved account.
func AccountCredentials(account *Account) *Credentials {
	return &Credentials{
		AccountID: account.ID,
		Name:      account.Name,
		IsAdmin:   account.IsAdmin,
	}
}

// AdminCredentials returns the synthetic admin principal.
func AdminCredentials() *Credentials {
	return &Credentials{IsAdmin: true}
}

package model

// Identity is the authenticated account reference bound to a live connection.
// It is assigned once at admission and never changes for the connection's lifetime.
type Identity struct {
	AccountID string `json:"account_id"`
	Broker    string `json:"broker"`
}

// Account 代表一个可登录的账户 (in-memory only)
type Account struct {
	ID           string `json:"id"`
	Broker       string `json:"broker"`
	PasswordHash []byte `json:"-"` // bcrypt; never serialized
}

// Identity returns the immutable identity derived from this account.
func (a *Account) Identity() Identity {
	return Identity{AccountID: a.ID, Broker: a.Broker}
}

package models

import "time"

// RefreshToken is a stored refresh token. Only the digest of the token is
// persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash []byte
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token can no longer be exchanged at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

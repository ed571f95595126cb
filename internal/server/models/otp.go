package models

import "time"

// OTPPurpose scopes a one-time password. A code issued for one purpose is
// never accepted for another.
type OTPPurpose string

const (
	PurposeSignup          OTPPurpose = "signup"
	PurposePasswordReset   OTPPurpose = "password-reset"
	PurposeEmergencyAccess OTPPurpose = "emergency-access"
	PurposeTwoFactor       OTPPurpose = "2fa"
)

func (p OTPPurpose) Valid() bool {
	switch p {
	case PurposeSignup, PurposePasswordReset, PurposeEmergencyAccess, PurposeTwoFactor:
		return true
	}
	return false
}

// OTPPayload is the purpose-specific data carried by a token and handed back
// on successful verification. Stored as JSON.
type OTPPayload struct {
	// PasswordHash is the argon2id hash of a pending sign-up or reset password.
	PasswordHash string `json:"password_hash,omitempty"`
	// DisplayName is the pending account display name for sign-up.
	DisplayName string `json:"display_name,omitempty"`
}

// OTPToken is the persisted form of a one-time password. The raw code is
// never stored: OTPHash holds its digest.
type OTPToken struct {
	ID        string
	Email     string
	Purpose   OTPPurpose
	OTPHash   []byte
	Payload   OTPPayload
	Attempts  int
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// Expired reports whether the token is past its expiry at now. A token is
// still accepted at exactly ExpiresAt.
func (t *OTPToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *OTPToken) Used() bool {
	return t.UsedAt != nil
}

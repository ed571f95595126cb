// Package common defines shared constants and sentinel errors used across
// client and server layers of Family Vault. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Input validation: bad email, out-of-range threshold, wrong-length phone.
	ErrValidation = errors.New("validation error")

	// Duplicate sign-up, duplicate nominee email.
	ErrConflict = errors.New("conflict")

	// One-time password lifecycle.
	ErrExpired         = errors.New("code expired")
	ErrMismatch        = errors.New("code mismatch")
	ErrAlreadyUsed     = errors.New("code already used")
	ErrTooManyAttempts = errors.New("too many attempts")

	// Mail collaborator reported a failure.
	ErrDelivery = errors.New("delivery failed")

	// Emergency-access guard failure. Never surfaced with its reason to an
	// unauthenticated caller, see AccessDeniedError.
	ErrAccessDenied = errors.New("access denied")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// Reasons carried by AccessDeniedError.
const (
	ReasonNomineeNotFound    = "nominee-not-found"
	ReasonNomineeNotVerified = "nominee-not-verified"
	ReasonAccessNotGranted   = "access-not-granted"
	ReasonInsufficientLevel  = "insufficient-access-level"
)

// AccessDeniedGenericMessage is the only text an unauthenticated caller sees
// for any emergency-access guard failure.
const AccessDeniedGenericMessage = "emergency access is not available for this email"

// AccessDeniedError reports which emergency-access guard failed. The reason is
// for logs and tests; transports must replace it with AccessDeniedGenericMessage.
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAccessDenied, e.Reason)
}

func (e *AccessDeniedError) Unwrap() error { return ErrAccessDenied }

// Denied builds an AccessDeniedError for the given reason.
func Denied(reason string) error {
	return &AccessDeniedError{Reason: reason}
}

// ValidationError wraps ErrValidation with a field-specific message that is
// safe to show to the user.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

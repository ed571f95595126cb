// Package otptokens persists hashed one-time passwords.
package otptokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/server/models"
)

// Repository stores OTP tokens. Issue and verify use it inside a single
// transaction, so FindLatest locks the row it returns.
type Repository interface {
	// DeleteActive removes every unused token for (email, purpose).
	DeleteActive(ctx context.Context, email string, purpose models.OTPPurpose) error
	// Create inserts token and fills its ID. common.ErrConflict when another
	// live token for (email, purpose) was committed first.
	Create(ctx context.Context, token *models.OTPToken) error
	// FindLatest returns the newest token for (email, purpose), used or not,
	// locked for update. common.ErrorNotFound when there is none.
	FindLatest(ctx context.Context, email string, purpose models.OTPPurpose) (*models.OTPToken, error)
	// MarkUsed sets used_at if it is still unset and reports whether this
	// call was the one that set it.
	MarkUsed(ctx context.Context, id string, at time.Time) (bool, error)
	// IncrementAttempts records a failed verification and returns the new count.
	IncrementAttempts(ctx context.Context, id string) (int, error)
	// Delete removes a token by ID.
	Delete(ctx context.Context, id string) error
	// PurgeExpired removes tokens that expired before the given time.
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

// Package refreshtokens stores the digests of issued refresh tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/server/models"
)

// Repository persists refresh tokens by digest.
type Repository interface {
	Create(ctx context.Context, userID string, tokenHash []byte, expiresAt time.Time) error

	// Find returns common.ErrorNotFound for an unknown digest.
	Find(ctx context.Context, tokenHash []byte) (*models.RefreshToken, error)

	// Consume deletes the token and reports whether this call removed it.
	// Two concurrent rotations of the same token see true at most once.
	Consume(ctx context.Context, tokenHash []byte) (bool, error)

	// DeleteByUser signs out every session of userID.
	DeleteByUser(ctx context.Context, userID string) error

	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

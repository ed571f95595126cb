// Package nominees persists the trusted contacts of account owners.
// Every read filters out soft-deleted rows.
package nominees

import (
	"context"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/server/models"
)

type Repository interface {
	// Create inserts a pending nominee; a duplicate email for the same owner
	// yields common.ErrConflict.
	Create(ctx context.Context, n *models.Nominee) (*models.Nominee, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Nominee, error)
	// Get returns a nominee owned by userID or common.ErrorNotFound.
	Get(ctx context.Context, userID, id string) (*models.Nominee, error)
	// FindByEmail returns every live nominee row with this email, across owners.
	FindByEmail(ctx context.Context, email string) ([]*models.Nominee, error)
	SoftDelete(ctx context.Context, userID, id string, at time.Time) error
	// MarkVerified verifies the pending nominee holding token.
	MarkVerified(ctx context.Context, token string, at time.Time) (*models.Nominee, error)
}

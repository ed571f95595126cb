// Package documents persists document metadata. File contents live in
// object storage and are addressed by StorageKey.
package documents

import (
	"context"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, d *models.Document) (*models.Document, error)
	// MarkUploaded flips upload_status to completed; exactly one row must match.
	MarkUploaded(ctx context.Context, userID, id string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Document, error)
	// Get returns a live document owned by userID.
	Get(ctx context.Context, userID, id string) (*models.Document, error)
	// GetByID returns a live document regardless of owner.
	GetByID(ctx context.Context, id string) (*models.Document, error)
	SoftDelete(ctx context.Context, userID, id string, at time.Time) error
	// ListGranted returns the live documents a nominee holds document entries
	// for, each paired with its access level.
	ListGranted(ctx context.Context, nomineeID string) ([]models.ResolvedDocument, error)
}

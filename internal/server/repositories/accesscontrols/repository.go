package accesscontrols

import (
	"context"

	"github.com/dmitrijs2005/familyvault/internal/server/models"
)

// Repository stores per-nominee access entries keyed by
// (nominee, resource, resource type).
type Repository interface {
	// Upsert creates the entry or replaces its access level.
	Upsert(ctx context.Context, ac *models.AccessControl) error
	Delete(ctx context.Context, nomineeID, resourceID string, rt models.ResourceType) error
	Get(ctx context.Context, nomineeID, resourceID string, rt models.ResourceType) (*models.AccessControl, error)
	ListByNominee(ctx context.Context, nomineeID string) ([]*models.AccessControl, error)
}

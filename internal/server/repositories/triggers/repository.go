// Package triggers persists per-account inactivity monitoring settings.
package triggers

import (
	"context"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/server/models"
)

type Repository interface {
	// Upsert writes the owner-editable settings keyed by user_id and stamps
	// last_activity_at. An inactive trigger never keeps a grant.
	Upsert(ctx context.Context, t *models.InactivityTrigger) error
	// CreateDefault inserts an inactive row for a new account; existing rows are left alone.
	CreateDefault(ctx context.Context, userID string, at time.Time) error
	// Get returns the trigger of userID or common.ErrorNotFound.
	Get(ctx context.Context, userID string) (*models.InactivityTrigger, error)
	// TouchActivity moves last_activity_at forward to at.
	TouchActivity(ctx context.Context, userID string, at time.Time) error
	// ListActive returns every trigger with is_active set.
	ListActive(ctx context.Context) ([]*models.InactivityTrigger, error)
	// SetGranted flips emergency_access_granted and reports whether the row changed.
	// A grant is refused for inactive rows.
	SetGranted(ctx context.Context, userID string, granted bool, at time.Time) (bool, error)
}

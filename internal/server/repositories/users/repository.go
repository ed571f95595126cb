// Package users declares the account repository contract and its PostgreSQL
// implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/familyvault/internal/server/models"
)

type Repository interface {
	// Create inserts a user and fills its ID and CreatedAt. A duplicate email
	// yields common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail looks the user up case-insensitively; common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID returns the user or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
}

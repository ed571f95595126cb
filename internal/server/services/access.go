package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/repomanager"
)

// AccessService answers which documents a nominee may see and what they may
// do with each.
type AccessService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAccessService(db *sql.DB, m repomanager.RepositoryManager) *AccessService {
	return &AccessService{db: db, repomanager: m}
}

// ResolveAccess lists the live documents granted to nomineeID with their
// access levels. No grants yields an empty, non-nil slice.
func (s *AccessService) ResolveAccess(ctx context.Context, nomineeID string) ([]models.ResolvedDocument, error) {
	docs, err := s.repomanager.Documents(s.db).ListGranted(ctx, nomineeID)
	if err != nil {
		return nil, fmt.Errorf("error resolving access: %w", err)
	}
	if docs == nil {
		docs = []models.ResolvedDocument{}
	}
	return docs, nil
}

// AuthorizeAction permits action under a grant at level. Download needs a
// download grant; view is allowed by either level.
func (s *AccessService) AuthorizeAction(level, action models.AccessLevel) error {
	if !action.Valid() {
		return common.ValidationError("unknown action %q", action)
	}
	if !level.Allows(action) {
		return common.Denied(common.ReasonInsufficientLevel)
	}
	return nil
}

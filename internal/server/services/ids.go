package services

import (
	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/google/uuid"
)

// knownIDs returns common.ErrorNotFound unless every id is a UUID. Rows are
// keyed by uuid columns, so anything else cannot name one.
func knownIDs(ids ...string) error {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return common.ErrorNotFound
		}
	}
	return nil
}

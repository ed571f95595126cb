package accesscontrols

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/dbx"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, ac *models.AccessControl) error {
	query := `
		INSERT INTO access_controls (nominee_id, resource_id, resource_type, access_level)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (nominee_id, resource_id, resource_type)
		DO UPDATE SET access_level = EXCLUDED.access_level
	`
	_, err := r.db.ExecContext(ctx, query, ac.NomineeID, ac.ResourceID, string(ac.ResourceType), string(ac.AccessLevel))
	if dbx.IsForeignKeyViolation(err) {
		return common.ErrorNotFound
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, nomineeID, resourceID string, rt models.ResourceType) error {
	query := `DELETE FROM access_controls WHERE nominee_id = $1 AND resource_id = $2 AND resource_type = $3`
	res, err := r.db.ExecContext(ctx, query, nomineeID, resourceID, string(rt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, nomineeID, resourceID string, rt models.ResourceType) (*models.AccessControl, error) {
	query := `
		SELECT nominee_id, resource_id, resource_type, access_level, created_at
		FROM access_controls
		WHERE nominee_id = $1 AND resource_id = $2 AND resource_type = $3
	`
	var (
		ac           models.AccessControl
		rtype, level string
	)
	err := r.db.QueryRowContext(ctx, query, nomineeID, resourceID, string(rt)).
		Scan(&ac.NomineeID, &ac.ResourceID, &rtype, &level, &ac.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	ac.ResourceType = models.ResourceType(rtype)
	ac.AccessLevel = models.AccessLevel(level)
	return &ac, nil
}

func (r *PostgresRepository) ListByNominee(ctx context.Context, nomineeID string) ([]*models.AccessControl, error) {
	query := `
		SELECT nominee_id, resource_id, resource_type, access_level, created_at
		FROM access_controls
		WHERE nominee_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, nomineeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AccessControl
	for rows.Next() {
		var (
			ac           models.AccessControl
			rtype, level string
		)
		if err := rows.Scan(&ac.NomineeID, &ac.ResourceID, &rtype, &level, &ac.CreatedAt); err != nil {
			return nil, err
		}
		ac.ResourceType = models.ResourceType(rtype)
		ac.AccessLevel = models.AccessLevel(level)
		result = append(result, &ac)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

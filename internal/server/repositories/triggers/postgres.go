package triggers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/dbx"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
)

const columns = `user_id, is_active, inactive_days_threshold, custom_message, notify_email, notify_sms,
		last_activity_at, emergency_access_granted, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, t *models.InactivityTrigger) error {
	query := `
		INSERT INTO inactivity_triggers (user_id, is_active, inactive_days_threshold, custom_message,
			notify_email, notify_sms, last_activity_at, emergency_access_granted, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $7)
		ON CONFLICT (user_id)
		DO UPDATE SET
			is_active = EXCLUDED.is_active,
			inactive_days_threshold = EXCLUDED.inactive_days_threshold,
			custom_message = EXCLUDED.custom_message,
			notify_email = EXCLUDED.notify_email,
			notify_sms = EXCLUDED.notify_sms,
			last_activity_at = EXCLUDED.last_activity_at,
			emergency_access_granted = inactivity_triggers.emergency_access_granted AND EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
	`
	msg := sql.NullString{String: t.CustomMessage, Valid: t.CustomMessage != ""}
	_, err := r.db.ExecContext(ctx, query, t.UserID, t.IsActive, t.InactiveDaysThreshold, msg,
		t.Channels.Email, t.Channels.SMS, t.LastActivityAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateDefault(ctx context.Context, userID string, at time.Time) error {
	query := `
		INSERT INTO inactivity_triggers (user_id, last_activity_at, updated_at)
		VALUES ($1, $2, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrigger(row scanner) (*models.InactivityTrigger, error) {
	var (
		t   models.InactivityTrigger
		msg sql.NullString
	)
	err := row.Scan(&t.UserID, &t.IsActive, &t.InactiveDaysThreshold, &msg, &t.Channels.Email, &t.Channels.SMS,
		&t.LastActivityAt, &t.EmergencyAccessGranted, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.CustomMessage = msg.String
	return &t, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.InactivityTrigger, error) {
	query := `SELECT ` + columns + ` FROM inactivity_triggers WHERE user_id = $1`
	t, err := scanTrigger(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) TouchActivity(ctx context.Context, userID string, at time.Time) error {
	query := `
		UPDATE inactivity_triggers SET last_activity_at = GREATEST(last_activity_at, $2)
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListActive(ctx context.Context) ([]*models.InactivityTrigger, error) {
	query := `SELECT ` + columns + ` FROM inactivity_triggers WHERE is_active`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select triggers: %w", err)
	}
	defer rows.Close()

	var result []*models.InactivityTrigger
	for rows.Next() {
		t, err := scanTrigger(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) SetGranted(ctx context.Context, userID string, granted bool, at time.Time) (bool, error) {
	query := `
		UPDATE inactivity_triggers SET emergency_access_granted = $2, updated_at = $3
		WHERE user_id = $1 AND emergency_access_granted <> $2 AND (is_active OR NOT $2)
	`
	res, err := r.db.ExecContext(ctx, query, userID, granted, at)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

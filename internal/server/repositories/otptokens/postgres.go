package otptokens

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) DeleteActive(ctx context.Context, email string, purpose models.OTPPurpose) error {
	query := `
		DELETE FROM otp_tokens
		WHERE lower(email) = lower($1) AND purpose = $2 AND used_at IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, email, string(purpose)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.OTPToken) error {
	payload, err := json.Marshal(token.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	query := `
		INSERT INTO otp_tokens (email, purpose, otp_hash, payload, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = r.db.QueryRowContext(ctx, query,
		token.Email, string(token.Purpose), token.OTPHash, string(payload), token.CreatedAt, token.ExpiresAt).
		Scan(&token.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindLatest(ctx context.Context, email string, purpose models.OTPPurpose) (*models.OTPToken, error) {
	query := `
		SELECT id, email, purpose, otp_hash, payload, attempts, created_at, expires_at, used_at
		FROM otp_tokens
		WHERE lower(email) = lower($1) AND purpose = $2
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`
	var (
		token   models.OTPToken
		p       string
		payload []byte
		usedAt  sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, email, string(purpose)).Scan(
		&token.ID, &token.Email, &p, &token.OTPHash, &payload,
		&token.Attempts, &token.CreatedAt, &token.ExpiresAt, &usedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	token.Purpose = models.OTPPurpose(p)
	if usedAt.Valid {
		t := usedAt.Time
		token.UsedAt = &t
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &token.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
	}
	return &token, nil
}

func (r *PostgresRepository) MarkUsed(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE otp_tokens SET used_at = $2
		WHERE id = $1 AND used_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE otp_tokens SET attempts = attempts + 1
		WHERE id = $1
		RETURNING attempts
	`
	var attempts int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return attempts, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM otp_tokens
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM otp_tokens
		WHERE expires_at < $1
	`
	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

package nominees

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

const columns = `id, user_id, full_name, relation, email, phone, status, verification_token, verified_at, deleted_at, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, n *models.Nominee) (*models.Nominee, error) {
	query := `
		INSERT INTO nominees (user_id, full_name, relation, email, phone, status, verification_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	phone := sql.NullString{String: n.Phone, Valid: n.Phone != ""}
	err := r.db.QueryRowContext(ctx, query, n.UserID, n.FullName, string(n.Relation), n.Email, phone,
		string(n.Status), n.VerificationToken).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNominee(row scanner) (*models.Nominee, error) {
	var (
		n                     models.Nominee
		relation, status      string
		phone                 sql.NullString
		verifiedAt, deletedAt sql.NullTime
	)
	err := row.Scan(&n.ID, &n.UserID, &n.FullName, &relation, &n.Email, &phone, &status,
		&n.VerificationToken, &verifiedAt, &deletedAt, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.Relation = models.Relation(relation)
	n.Status = models.NomineeStatus(status)
	n.Phone = phone.String
	if verifiedAt.Valid {
		t := verifiedAt.Time
		n.VerifiedAt = &t
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		n.DeletedAt = &t
	}
	return &n, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Nominee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select nominees: %w", err)
	}
	defer rows.Close()

	var result []*models.Nominee
	for rows.Next() {
		n, err := scanNominee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Nominee, error) {
	query := `SELECT ` + columns + ` FROM nominees
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at`
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) ([]*models.Nominee, error) {
	query := `SELECT ` + columns + ` FROM nominees
		WHERE lower(email) = lower($1) AND deleted_at IS NULL
		ORDER BY created_at`
	return r.list(ctx, query, email)
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Nominee, error) {
	query := `SELECT ` + columns + ` FROM nominees
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	n, err := scanNominee(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, userID, id string, at time.Time) error {
	query := `
		UPDATE nominees SET deleted_at = $3
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, userID, at)
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

func (r *PostgresRepository) MarkVerified(ctx context.Context, token string, at time.Time) (*models.Nominee, error) {
	query := `
		UPDATE nominees SET status = 'verified', verified_at = $2
		WHERE verification_token = $1 AND status = 'pending' AND deleted_at IS NULL
		RETURNING ` + columns
	n, err := scanNominee(r.db.QueryRowContext(ctx, query, token, at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

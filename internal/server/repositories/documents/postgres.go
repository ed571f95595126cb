package documents

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

const columns = `id, user_id, file_name, file_type, file_size, storage_key, upload_status, uploaded_at, deleted_at`

// PostgresRepository implements document metadata storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.Document) (*models.Document, error) {
	query := `
		INSERT INTO documents (user_id, file_name, file_type, file_size, storage_key, upload_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, uploaded_at
	`
	err := r.db.QueryRowContext(ctx, query, d.UserID, d.FileName, d.FileType, d.FileSize, d.StorageKey, d.UploadStatus).
		Scan(&d.ID, &d.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

// MarkUploaded marks the document as uploaded (upload_status='completed').
func (r *PostgresRepository) MarkUploaded(ctx context.Context, userID, id string) error {
	query := `update documents set upload_status='completed' where id=$1 and user_id=$2 and deleted_at is null`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark uploaded: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner, extra ...any) (*models.Document, error) {
	var (
		d         models.Document
		deletedAt sql.NullTime
	)
	dest := append([]any{&d.ID, &d.UserID, &d.FileName, &d.FileType, &d.FileSize, &d.StorageKey,
		&d.UploadStatus, &d.UploadedAt, &deletedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		d.DeletedAt = &t
	}
	return &d, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY uploaded_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) get(ctx context.Context, query string, args ...any) (*models.Document, error) {
	d, err := scanDocument(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id string) (*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	return r.get(ctx, query, id, userID)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + columns + ` FROM documents WHERE id = $1 AND deleted_at IS NULL`
	return r.get(ctx, query, id)
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, userID, id string, at time.Time) error {
	query := `
		UPDATE documents SET deleted_at = $3
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

func (r *PostgresRepository) ListGranted(ctx context.Context, nomineeID string) ([]models.ResolvedDocument, error) {
	query := `
		SELECT d.id, d.user_id, d.file_name, d.file_type, d.file_size, d.storage_key, d.upload_status,
			d.uploaded_at, d.deleted_at, ac.access_level
		FROM access_controls ac
		JOIN documents d ON d.id = ac.resource_id
		WHERE ac.nominee_id = $1 AND ac.resource_type = 'document'
			AND d.deleted_at IS NULL AND d.upload_status = 'completed'
		ORDER BY d.file_name
	`
	rows, err := r.db.QueryContext(ctx, query, nomineeID)
	if err != nil {
		return nil, fmt.Errorf("failed to select granted documents: %w", err)
	}
	defer rows.Close()

	result := []models.ResolvedDocument{}
	for rows.Next() {
		var level string
		d, err := scanDocument(rows, &level)
		if err != nil {
			return nil, err
		}
		result = append(result, models.ResolvedDocument{Document: *d, AccessLevel: models.AccessLevel(level)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Package dbx holds the database plumbing shared by repositories: the DBTX
// handle, transaction scoping and PostgreSQL error classification.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// DBTX is satisfied by *sql.DB and *sql.Tx, so a repository works the same
// inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back when fn fails or panics; a panic is re-raised
// after the rollback.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    otps := manager.OTPTokens(tx)
//	    if err := otps.DeleteActive(ctx, email, purpose); err != nil {
//	        return err
//	    }
//	    return otps.Create(ctx, token)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tx.Rollback()
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err wraps a PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == uniqueViolation
}

// IsForeignKeyViolation reports whether err wraps a PostgreSQL foreign key
// violation, i.e. a referenced row does not exist.
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == foreignKeyViolation
}

package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/familyvault/internal/dbx"
	"github.com/dmitrijs2005/familyvault/internal/server/migrations"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/accesscontrols"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/documents"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/nominees"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/otptokens"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/triggers"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager builds the PostgreSQL repositories and owns the
// schema.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) OTPTokens(db dbx.DBTX) otptokens.Repository {
	return otptokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Triggers(db dbx.DBTX) triggers.Repository {
	return triggers.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Nominees(db dbx.DBTX) nominees.Repository {
	return nominees.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) AccessControls(db dbx.DBTX) accesscontrols.Repository {
	return accesscontrols.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	return documents.NewPostgresRepository(db)
}

type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
}

// newMigrator is replaced in tests.
var newMigrator = func(db *sql.DB, fsys fs.FS) (migrator, error) {
	return goose.NewProvider(goose.DialectPostgres, db, fsys)
}

// RunMigrations applies every pending embedded migration.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := newMigrator(db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Package repomanager vends the server repositories, bound either to the
// connection pool or to a transaction, so services can compose several of
// them under dbx.WithTx.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/familyvault/internal/dbx"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/accesscontrols"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/documents"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/nominees"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/otptokens"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/triggers"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error

	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	OTPTokens(db dbx.DBTX) otptokens.Repository
	Triggers(db dbx.DBTX) triggers.Repository
	Nominees(db dbx.DBTX) nominees.Repository
	AccessControls(db dbx.DBTX) accesscontrols.Repository
	Documents(db dbx.DBTX) documents.Repository
}

package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/familyvault/internal/client/capability"
	"github.com/dmitrijs2005/familyvault/internal/client/client"
	"github.com/dmitrijs2005/familyvault/internal/client/config"
	"github.com/dmitrijs2005/familyvault/internal/client/emergency"
	"github.com/dmitrijs2005/familyvault/internal/client/session"
	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/rpc"
)

// Vault is the part of the API the CLI uses. *client.GRPCClient satisfies it.
type Vault interface {
	emergency.Backend

	Close() error
	Ping(ctx context.Context) error

	RequestSignup(ctx context.Context, email, password, displayName string) error
	ConfirmSignup(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error

	GetSettings(ctx context.Context) (*rpc.Settings, error)
	UpdateSettings(ctx context.Context, settings rpc.Settings) error

	AddNominee(ctx context.Context, req rpc.NomineeRequest) (*rpc.Nominee, error)
	ListNominees(ctx context.Context) ([]rpc.Nominee, error)
	DeleteNominee(ctx context.Context, id string) error
	GrantAccess(ctx context.Context, nomineeID, documentID, level string) error
	RevokeAccess(ctx context.Context, nomineeID, documentID string) error
	ListGrants(ctx context.Context, nomineeID string) ([]rpc.Grant, error)

	CreateUpload(ctx context.Context, fileName, fileType string, size int64) (*rpc.UploadResponse, error)
	MarkUploaded(ctx context.Context, documentID string) error
	ListDocuments(ctx context.Context) ([]rpc.Document, error)
	DeleteDocument(ctx context.Context, documentID string) error
	DocumentURL(ctx context.Context, documentID string) (string, error)
}

type App struct {
	config  *config.Config
	api     Vault
	session *session.Context
	notify  capability.NotificationRegistrar
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stderr, c.LogLevel).With("module", "cli")
	sess := session.New()

	api, err := client.NewVaultClient(c.ServerEndpointAddr, c.RequestTimeout, sess)
	if err != nil {
		return nil, err
	}

	return &App{
		config:  c,
		api:     api,
		session: sess,
		notify:  capability.FromEnv(os.Getenv, logger),
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run blocks in the REPL until the user exits or input ends, then tears the
// session down.
func (a *App) Run(ctx context.Context) {
	defer func() {
		a.session.Teardown()
		if err := a.api.Close(); err != nil {
			a.logger.Warn(ctx, "closing connection", "error", err)
		}
	}()

	a.session.Begin()
	if err := a.api.Ping(ctx); err != nil {
		a.logger.Warn(ctx, "server is not reachable", "addr", a.config.ServerEndpointAddr, "error", err)
		a.println("Server is not reachable right now; commands will fail until it is.")
	}

	a.println("Family Vault CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == session.Authenticated
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.session.Email()
	}
	return "guest"
}

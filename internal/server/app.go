// Package server wires configuration, storage, mail, object storage and the
// business services together and runs the gRPC and HTTP endpoints.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/mailer"
	"github.com/dmitrijs2005/familyvault/internal/server/config"
	"github.com/dmitrijs2005/familyvault/internal/server/httpapi"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/familyvault/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/familyvault/internal/server/grpc"
)

var sqlOpen = sql.Open

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	users      *services.UserService
	inactivity *services.InactivityService
	evaluator  *services.EvaluatorService
	nominees   *services.NomineeService
	documents  *services.DocumentService
	emergency  *services.EmergencyService
}

// newMailer picks SMTP delivery when a host is configured and falls back to
// logging message metadata otherwise.
func newMailer(c *config.Config, logger logging.Logger) mailer.Sender {
	if c.SMTPHost == "" {
		logger.Warn(context.Background(), "SMTP host not configured, emails will only be logged")
		return mailer.NewLogSender(logger)
	}
	return mailer.NewSMTPSender(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword, c.MailFrom, c.MailReplyTo, c.SMTPTimeout)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	return newApp(c, logger, db, rm, newMailer(c, logger), services.NewS3Signer(c)), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager,
	sender mailer.Sender, signer services.URLSigner) *App {
	otp := services.NewOTPService(db, rm, c, sender, logger)
	inactivity := services.NewInactivityService(db, rm, logger)
	access := services.NewAccessService(db, rm)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		users:      services.NewUserService(db, rm, c, otp, inactivity, logger),
		inactivity: inactivity,
		evaluator:  services.NewEvaluatorService(db, rm, sender, logger),
		nominees:   services.NewNomineeService(db, rm, c, sender, logger),
		documents:  services.NewDocumentService(db, rm, signer, logger),
		emergency:  services.NewEmergencyService(db, rm, c, otp, access, signer, logger),
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, gs.Services{
		Accounts:   app.users,
		Inactivity: app.inactivity,
		Nominees:   app.nominees,
		Documents:  app.documents,
		Emergency:  app.emergency,
	}, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.users, app.emergency, app.nominees)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both endpoints until ctx is cancelled or either server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
}

// Evaluate runs a single inactivity evaluation pass. It is meant to be
// scheduled externally, e.g. by cron.
func (app *App) Evaluate(ctx context.Context) error {
	defer app.db.Close()

	report, err := app.evaluator.EvaluateOnce(ctx)
	app.logger.Info(ctx, "evaluation finished",
		"evaluated", report.Evaluated, "granted", report.Granted, "revoked", report.Revoked,
		"notified", report.Notified, "purged_codes", report.PurgedOTPs,
		"purged_refresh_tokens", report.PurgedRefreshTokens)
	return err
}

// Package httpapi serves the Family Vault HTTP function endpoints: the
// one-time password flows used by web clients, the nominee verification link
// and a health check.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Accounts interface {
	RequestSignup(ctx context.Context, email, password, displayName string) error
	ConfirmSignup(ctx context.Context, email, code string) (*services.TokenPair, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type Emergency interface {
	RequestAccess(ctx context.Context, email string) error
	VerifyAccess(ctx context.Context, email, code string) (*services.EmergencyGrant, error)
}

type NomineeVerifier interface {
	Verify(ctx context.Context, token string) (*models.Nominee, error)
}

type HTTPServer struct {
	address   string
	accounts  Accounts
	emergency Emergency
	nominees  NomineeVerifier
	logger    logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, accounts Accounts, emergency Emergency, nominees NomineeVerifier) *HTTPServer {
	return &HTTPServer{
		address:   a,
		accounts:  accounts,
		emergency: emergency,
		nominees:  nominees,
		logger:    l.With("module", "http_server"),
	}
}

// Router builds the chi router with every endpoint mounted.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/nominees/verify", s.verifyNominee)

	r.Route("/functions/v1", func(r chi.Router) {
		r.Post("/send-signup-otp", s.sendSignupOTP)
		r.Post("/verify-signup-otp", s.verifySignupOTP)
		r.Post("/send-password-reset-otp", s.sendPasswordResetOTP)
		r.Post("/verify-password-reset-otp", s.verifyPasswordResetOTP)
		r.Post("/send-emergency-otp", s.sendEmergencyOTP)
		r.Post("/verify-emergency-otp", s.verifyEmergencyOTP)
	})

	return r
}

// Run listens on the configured address and serves until ctx is done.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then shuts down.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Package services contains server-side business logic. This file implements
// UserService, which handles sign-up and password reset through one-time
// passwords, sign-in, and issuing/refreshing JWTs plus server-stored refresh
// tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/cryptox"
	"github.com/dmitrijs2005/familyvault/internal/dbx"
	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/server/auth"
	"github.com/dmitrijs2005/familyvault/internal/server/config"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/repomanager"
)

// MinPasswordLength is the shortest accepted account password.
const MinPasswordLength = 8

// dummyHash is verified against when the account does not exist so that
// sign-in takes the same time either way.
var dummyHash, _ = cryptox.HashPassword([]byte("familyvault-dummy-password"))

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides account operations:
// - RequestSignup / ConfirmSignup: create accounts through an emailed code
// - Login: verify credentials and mint tokens
// - RequestPasswordReset / ResetPassword: replace a password through an emailed code
// - RefreshToken: rotate refresh tokens and mint new access tokens
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	otp                          *OTPService
	inactivity                   *InactivityService
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	otp *OTPService, inactivity *InactivityService, logger logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		otp:                          otp,
		inactivity:                   inactivity,
		logger:                       logger.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

func validatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return common.ValidationError("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// RequestSignup sends a sign-up code to email. The hashed password and the
// display name travel in the code's payload until ConfirmSignup.
func (s *UserService) RequestSignup(ctx context.Context, email, password, displayName string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	switch {
	case err == nil:
		return common.ErrConflict
	case !errors.Is(err, common.ErrorNotFound):
		return fmt.Errorf("error looking up user: %w", err)
	}

	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return common.ErrorInternal
	}

	return s.otp.Issue(ctx, email, models.PurposeSignup, models.OTPPayload{
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(displayName),
	})
}

// ConfirmSignup consumes the sign-up code, creates the account with an
// inactive trigger and signs the new owner in.
func (s *UserService) ConfirmSignup(ctx context.Context, email, code string) (*TokenPair, error) {
	email = normalizeEmail(email)

	payload, err := s.otp.Verify(ctx, email, models.PurposeSignup, code)
	if err != nil {
		return nil, err
	}
	if payload.PasswordHash == "" {
		return nil, common.ErrorInternal
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        email,
			DisplayName:  payload.DisplayName,
			PasswordHash: payload.PasswordHash,
		})
		if err != nil {
			return err
		}
		if err := s.repomanager.Triggers(tx).CreateDefault(ctx, u.ID, s.now()); err != nil {
			return err
		}
		pair, err = s.generateTokenPair(ctx, u.ID, tx)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "account created", "email", email)
	return pair, nil
}

// Login verifies the password and, on success, records activity and
// returns a new TokenPair.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = cryptox.VerifyPassword(dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword(user.PasswordHash, []byte(password))
	if err != nil {
		s.logger.Error(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	if err := s.inactivity.RecordActivity(ctx, user.ID); err != nil {
		s.logger.Warn(ctx, "recording activity failed", "user_id", user.ID, "error", err)
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// RequestPasswordReset sends a reset code when the account exists. Unknown
// emails succeed without sending anything.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	_, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "password reset for unknown email", "email", email)
			return nil
		}
		return fmt.Errorf("error looking up user: %w", err)
	}

	return s.otp.Issue(ctx, email, models.PurposePasswordReset, models.OTPPayload{})
}

// ResetPassword consumes the reset code, stores the new password and signs
// out every session of the account.
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	if _, err := s.otp.Verify(ctx, email, models.PurposePasswordReset, code); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword([]byte(newPassword))
	if err != nil {
		return common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, user.ID, hash); err != nil {
			return err
		}
		return s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, user.ID)
	})
	if err != nil {
		return fmt.Errorf("error resetting password: %w", err)
	}

	s.logger.Info(ctx, "password reset", "email", email)
	return nil
}

// RefreshToken exchanges a refresh token for a new pair. The old token is
// consumed in the same transaction that stores the new one, so a token can be
// rotated once. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	digest := cryptox.DigestToken(refreshToken)

	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, digest)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ok, err := s.repomanager.RefreshTokens(tx).Consume(ctx, digest)
		if err != nil {
			return fmt.Errorf("error consuming refresh token: %w", err)
		}
		if !ok {
			return common.ErrorNotFound
		}
		pair, err = s.generateTokenPair(ctx, token.UserID, tx)
		return err
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.RandomToken(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	expiresAt := s.now().Add(s.refreshTokenValidityDuration)
	if err := refreshRepo.Create(ctx, userID, cryptox.DigestToken(refresh), expiresAt); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/cryptox"
	"github.com/dmitrijs2005/familyvault/internal/dbx"
	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/mailer"
	"github.com/dmitrijs2005/familyvault/internal/server/config"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/repomanager"
)

var otpTitles = map[models.OTPPurpose]string{
	models.PurposeSignup:          "Confirm your Family Vault sign-up",
	models.PurposePasswordReset:   "Reset your Family Vault password",
	models.PurposeEmergencyAccess: "Your Family Vault emergency access code",
	models.PurposeTwoFactor:       "Your Family Vault sign-in code",
}

// normalizeEmail is the canonical form used for storage and digests.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" || !govalidator.IsEmail(email) {
		return common.ValidationError("invalid email address")
	}
	return nil
}

// OTPService issues and verifies purpose-scoped one-time passwords. Only the
// digest of a code is persisted; the code itself exists in memory until it
// has been handed to the mailer.
type OTPService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mailer.Sender
	logger      logging.Logger
	validity    time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewOTPService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, sender mailer.Sender, logger logging.Logger) *OTPService {
	validity := cfg.OTPValidity
	if validity <= 0 {
		validity = common.OTPValidity
	}
	maxAttempts := cfg.MaxOTPAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &OTPService{
		db:          db,
		repomanager: m,
		mailer:      sender,
		logger:      logger.With("module", "otp"),
		validity:    validity,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Issue replaces any outstanding code for (email, purpose) with a fresh one
// and emails it. A delivery failure leaves the new code stored and returns
// an error wrapping common.ErrDelivery, so the caller may offer a resend.
func (s *OTPService) Issue(ctx context.Context, email string, purpose models.OTPPurpose, payload models.OTPPayload) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if !purpose.Valid() {
		return common.ValidationError("unknown code purpose %q", purpose)
	}

	code, err := cryptox.GenerateOTP()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	now := s.now()
	token := &models.OTPToken{
		Email:     email,
		Purpose:   purpose,
		OTPHash:   cryptox.DigestOTP(string(purpose), email, code),
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(s.validity),
	}

	replace := func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.OTPTokens(tx)
		if err := repo.DeleteActive(ctx, email, purpose); err != nil {
			return err
		}
		return repo.Create(ctx, token)
	}
	err = dbx.WithTx(ctx, s.db, nil, replace)
	if errors.Is(err, common.ErrConflict) {
		// A concurrent Issue committed first; the newer code replaces it.
		err = dbx.WithTx(ctx, s.db, nil, replace)
	}
	if err != nil {
		s.logger.Error(ctx, "storing code failed", "email", email, "purpose", purpose, "error", err)
		return fmt.Errorf("error issuing code: %w", err)
	}

	msg, err := mailer.OTPMessage(email, otpTitles[purpose], code, s.validity)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error(ctx, "code delivery failed", "email", email, "purpose", purpose, "error", err)
		return fmt.Errorf("%w: %v", common.ErrDelivery, err)
	}

	s.logger.Info(ctx, "code issued", "email", email, "purpose", purpose)
	return nil
}

// Verify checks code against the newest token for (email, purpose) and
// consumes it on success, returning the payload stored at issue time.
//
// Outcomes: common.ErrValidation for a malformed code, common.ErrorNotFound
// when nothing was issued, common.ErrAlreadyUsed on replay, common.ErrExpired
// after ExpiresAt, common.ErrTooManyAttempts once the failure cap is hit
// (the token is then discarded) and common.ErrMismatch for a wrong code.
func (s *OTPService) Verify(ctx context.Context, email string, purpose models.OTPPurpose, code string) (*models.OTPPayload, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if !cryptox.IsOTPFormat(code) {
		return nil, common.ValidationError("code must be %d digits", cryptox.OTPLength)
	}
	if !purpose.Valid() {
		return nil, common.ValidationError("unknown code purpose %q", purpose)
	}

	var (
		payload *models.OTPPayload
		outcome error
	)

	// Failed attempts must be committed, so outcome errors that change state
	// are reported through outcome rather than by aborting the transaction.
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.OTPTokens(tx)

		token, err := repo.FindLatest(ctx, email, purpose)
		if err != nil {
			return err
		}
		if token.Used() {
			return common.ErrAlreadyUsed
		}

		now := s.now()
		if token.Expired(now) {
			return common.ErrExpired
		}

		if token.Attempts >= s.maxAttempts {
			if err := repo.Delete(ctx, token.ID); err != nil {
				return err
			}
			outcome = common.ErrTooManyAttempts
			return nil
		}

		if !cryptox.EqualDigest(token.OTPHash, cryptox.DigestOTP(string(purpose), email, code)) {
			if _, err := repo.IncrementAttempts(ctx, token.ID); err != nil {
				return err
			}
			outcome = common.ErrMismatch
			return nil
		}

		ok, err := repo.MarkUsed(ctx, token.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrAlreadyUsed
		}

		p := token.Payload
		payload = &p
		return nil
	})
	if err == nil {
		err = outcome
	}
	if err != nil {
		s.logger.Warn(ctx, "code verification failed", "email", email, "purpose", purpose, "error", err)
		if isOTPOutcome(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error verifying code: %w", err)
	}

	s.logger.Info(ctx, "code verified", "email", email, "purpose", purpose)
	return payload, nil
}

func isOTPOutcome(err error) bool {
	for _, e := range []error{common.ErrorNotFound, common.ErrAlreadyUsed, common.ErrExpired,
		common.ErrTooManyAttempts, common.ErrMismatch} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

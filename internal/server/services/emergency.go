package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/server/auth"
	"github.com/dmitrijs2005/familyvault/internal/server/config"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/repomanager"
)

// EmergencyGrant is what a nominee receives after a successful emergency
// access verification.
type EmergencyGrant struct {
	Token     string
	ExpiresAt time.Time
	Documents []models.ResolvedDocument
}

// EmergencyService runs the server side of a nominee's emergency access:
// guard checks, the emergency-access code, and signed document URLs.
//
// A nominee email may be registered by several owners; every row that passes
// the guards contributes its documents.
type EmergencyService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	otp           *OTPService
	access        *AccessService
	signer        URLSigner
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	now           func() time.Time
}

func NewEmergencyService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	otp *OTPService, access *AccessService, signer URLSigner, logger logging.Logger) *EmergencyService {
	return &EmergencyService{
		db:            db,
		repomanager:   m,
		otp:           otp,
		access:        access,
		signer:        signer,
		logger:        logger.With("module", "emergency"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.NomineeTokenValidityDuration,
		now:           time.Now,
	}
}

// eligible returns the nominee rows for email that may use emergency access.
// Guards are evaluated in order (exists, verified, owner granted) and the
// first one no row passes is reported as an AccessDeniedError.
func (s *EmergencyService) eligible(ctx context.Context, email string) ([]*models.Nominee, error) {
	rows, err := s.repomanager.Nominees(s.db).FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error looking up nominee: %w", err)
	}
	if len(rows) == 0 {
		return nil, common.Denied(common.ReasonNomineeNotFound)
	}

	var verified []*models.Nominee
	for _, n := range rows {
		if n.CanAuthenticate() {
			verified = append(verified, n)
		}
	}
	if len(verified) == 0 {
		return nil, common.Denied(common.ReasonNomineeNotVerified)
	}

	triggers := s.repomanager.Triggers(s.db)
	var granted []*models.Nominee
	for _, n := range verified {
		t, err := triggers.Get(ctx, n.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			return nil, fmt.Errorf("error reading trigger: %w", err)
		}
		if t.EmergencyAccessGranted {
			granted = append(granted, n)
		}
	}
	if len(granted) == 0 {
		return nil, common.Denied(common.ReasonAccessNotGranted)
	}
	return granted, nil
}

func (s *EmergencyService) logDenied(ctx context.Context, step, email string, err error) {
	var denied *common.AccessDeniedError
	if errors.As(err, &denied) {
		s.logger.Warn(ctx, "emergency access denied", "step", step, "email", email, "reason", denied.Reason)
	}
}

// RequestAccess checks the guards for email and, when they pass, sends an
// emergency-access code. No code is issued on denial.
func (s *EmergencyService) RequestAccess(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	if _, err := s.eligible(ctx, email); err != nil {
		s.logDenied(ctx, "request", email, err)
		return err
	}

	return s.otp.Issue(ctx, email, models.PurposeEmergencyAccess, models.OTPPayload{})
}

// VerifyAccess consumes the emergency-access code, re-checks the guards and
// returns the disclosable documents with a nominee session token.
func (s *EmergencyService) VerifyAccess(ctx context.Context, email, code string) (*EmergencyGrant, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if _, err := s.otp.Verify(ctx, email, models.PurposeEmergencyAccess, code); err != nil {
		return nil, err
	}

	rows, err := s.eligible(ctx, email)
	if err != nil {
		s.logDenied(ctx, "verify", email, err)
		return nil, err
	}

	docs := []models.ResolvedDocument{}
	for _, n := range rows {
		resolved, err := s.access.ResolveAccess(ctx, n.ID)
		if err != nil {
			return nil, err
		}
		docs = append(docs, resolved...)
	}

	token, err := auth.GenerateNomineeToken(email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "emergency access opened", "email", email, "documents", len(docs))
	return &EmergencyGrant{Token: token, ExpiresAt: s.now().Add(s.tokenValidity), Documents: docs}, nil
}

// DocumentURL returns a signed URL for documentID if the holder of
// nomineeToken is still eligible and holds a grant allowing action.
func (s *EmergencyService) DocumentURL(ctx context.Context, nomineeToken, documentID string, action models.AccessLevel) (string, error) {
	email, err := auth.GetNomineeEmailFromToken(nomineeToken, s.jwtSecret)
	if err != nil {
		return "", err
	}
	if knownIDs(documentID) != nil {
		return "", common.Denied(common.ReasonAccessNotGranted)
	}

	rows, err := s.eligible(ctx, email)
	if err != nil {
		s.logDenied(ctx, "url", email, err)
		return "", err
	}

	acl := s.repomanager.AccessControls(s.db)
	var (
		level models.AccessLevel
		owner string
	)
	for _, n := range rows {
		ac, err := acl.Get(ctx, n.ID, documentID, models.ResourceDocument)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				continue
			}
			return "", fmt.Errorf("error reading access entry: %w", err)
		}
		if level == "" || ac.AccessLevel == models.AccessDownload {
			level, owner = ac.AccessLevel, n.UserID
		}
	}
	if level == "" {
		return "", common.Denied(common.ReasonAccessNotGranted)
	}

	if err := s.access.AuthorizeAction(level, action); err != nil {
		s.logDenied(ctx, "url", email, err)
		return "", err
	}

	doc, err := s.repomanager.Documents(s.db).GetByID(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("error reading document: %w", err)
	}
	if doc.UserID != owner || doc.UploadStatus != models.UploadCompleted {
		return "", common.Denied(common.ReasonAccessNotGranted)
	}

	url, err := s.signer.GetURL(ctx, objectRef(doc, action == models.AccessDownload), common.SignedURLValidity)
	if err != nil {
		s.logger.Error(ctx, "signing url failed", "document_id", documentID, "error", err)
		return "", common.ErrorInternal
	}
	return url, nil
}

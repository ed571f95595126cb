package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/mailer"
	"github.com/dmitrijs2005/familyvault/internal/server/config"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NomineeInput is what an owner submits to add a nominee.
type NomineeInput struct {
	FullName string
	Relation models.Relation
	Email    string
	Phone    string
}

// NomineeService manages an owner's nominees and their per-document grants.
type NomineeService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	mailer        mailer.Sender
	logger        logging.Logger
	allowedDomain string
	publicBaseURL string
	now           func() time.Time
}

func NewNomineeService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, sender mailer.Sender, logger logging.Logger) *NomineeService {
	return &NomineeService{
		db:            db,
		repomanager:   m,
		mailer:        sender,
		logger:        logger.With("module", "nominees"),
		allowedDomain: strings.ToLower(strings.TrimPrefix(cfg.NomineeEmailDomain, "@")),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		now:           time.Now,
	}
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (s *NomineeService) validate(in *NomineeInput) error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.FullName == "" {
		return common.ValidationError("full name is required")
	}
	if !in.Relation.Valid() {
		return common.ValidationError("unknown relation %q", in.Relation)
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if s.allowedDomain != "" && !strings.HasSuffix(in.Email, "@"+s.allowedDomain) {
		return common.ValidationError("nominee email must be a %s address", s.allowedDomain)
	}
	if in.Phone != "" && !isTenDigits(in.Phone) {
		return common.ValidationError("phone must be exactly 10 digits")
	}
	return nil
}

// Create adds a pending nominee and emails them a verification link. A
// failed invitation is logged and does not undo the nominee.
func (s *NomineeService) Create(ctx context.Context, userID string, in NomineeInput) (*models.Nominee, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	n, err := s.repomanager.Nominees(s.db).Create(ctx, &models.Nominee{
		UserID:            userID,
		FullName:          in.FullName,
		Relation:          in.Relation,
		Email:             in.Email,
		Phone:             in.Phone,
		Status:            models.NomineePending,
		VerificationToken: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating nominee: %w", err)
	}

	ownerName := "A Family Vault member"
	if owner, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err == nil && owner.DisplayName != "" {
		ownerName = owner.DisplayName
	}

	link := s.publicBaseURL + "/nominees/verify?token=" + url.QueryEscape(n.VerificationToken)
	msg, err := mailer.InviteMessage(n.Email, n.FullName, ownerName, link)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.logger.Warn(ctx, "nominee invitation not delivered", "user_id", userID, "email", n.Email, "error", err)
	}

	s.logger.Info(ctx, "nominee added", "user_id", userID, "nominee_id", n.ID)
	return n, nil
}

func (s *NomineeService) List(ctx context.Context, userID string) ([]*models.Nominee, error) {
	list, err := s.repomanager.Nominees(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing nominees: %w", err)
	}
	return list, nil
}

// Delete soft-deletes a nominee; their grants stop resolving immediately.
func (s *NomineeService) Delete(ctx context.Context, userID, nomineeID string) error {
	if err := knownIDs(nomineeID); err != nil {
		return err
	}
	if err := s.repomanager.Nominees(s.db).SoftDelete(ctx, userID, nomineeID, s.now()); err != nil {
		return fmt.Errorf("error deleting nominee: %w", err)
	}
	s.logger.Info(ctx, "nominee deleted", "user_id", userID, "nominee_id", nomineeID)
	return nil
}

// Verify confirms the nominee holding the invitation token.
func (s *NomineeService) Verify(ctx context.Context, token string) (*models.Nominee, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, common.ValidationError("verification token is required")
	}
	n, err := s.repomanager.Nominees(s.db).MarkVerified(ctx, token, s.now())
	if err != nil {
		return nil, fmt.Errorf("error verifying nominee: %w", err)
	}
	s.logger.Info(ctx, "nominee verified", "nominee_id", n.ID)
	return n, nil
}

// Grant gives one of the owner's nominees access to one of the owner's
// documents, replacing any previous level.
func (s *NomineeService) Grant(ctx context.Context, userID, nomineeID, documentID string, level models.AccessLevel) error {
	if !level.Valid() {
		return common.ValidationError("unknown access level %q", level)
	}
	if err := knownIDs(nomineeID, documentID); err != nil {
		return err
	}
	if _, err := s.repomanager.Nominees(s.db).Get(ctx, userID, nomineeID); err != nil {
		return fmt.Errorf("error reading nominee: %w", err)
	}
	doc, err := s.repomanager.Documents(s.db).Get(ctx, userID, documentID)
	if err != nil {
		return fmt.Errorf("error reading document: %w", err)
	}
	if doc.UploadStatus != models.UploadCompleted {
		return common.ValidationError("document upload is not complete")
	}

	err = s.repomanager.AccessControls(s.db).Upsert(ctx, &models.AccessControl{
		NomineeID:    nomineeID,
		ResourceID:   documentID,
		ResourceType: models.ResourceDocument,
		AccessLevel:  level,
	})
	if err != nil {
		return fmt.Errorf("error granting access: %w", err)
	}
	return nil
}

func (s *NomineeService) Revoke(ctx context.Context, userID, nomineeID, documentID string) error {
	if err := knownIDs(nomineeID, documentID); err != nil {
		return err
	}
	if _, err := s.repomanager.Nominees(s.db).Get(ctx, userID, nomineeID); err != nil {
		return fmt.Errorf("error reading nominee: %w", err)
	}
	if err := s.repomanager.AccessControls(s.db).Delete(ctx, nomineeID, documentID, models.ResourceDocument); err != nil {
		return fmt.Errorf("error revoking access: %w", err)
	}
	return nil
}

// Grants lists the access entries of one of the owner's nominees.
func (s *NomineeService) Grants(ctx context.Context, userID, nomineeID string) ([]*models.AccessControl, error) {
	if err := knownIDs(nomineeID); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Nominees(s.db).Get(ctx, userID, nomineeID); err != nil {
		return nil, fmt.Errorf("error reading nominee: %w", err)
	}
	list, err := s.repomanager.AccessControls(s.db).ListByNominee(ctx, nomineeID)
	if err != nil {
		return nil, fmt.Errorf("error listing grants: %w", err)
	}
	return list, nil
}

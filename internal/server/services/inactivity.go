package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/repomanager"
)

// MaxCustomMessageLength bounds the note sent to nominees on a grant.
const MaxCustomMessageLength = 2000

// InactivitySettings are the owner-editable fields of an inactivity trigger.
type InactivitySettings struct {
	IsActive              bool
	InactiveDaysThreshold int
	CustomMessage         string
	Channels              models.NotificationChannels
}

// InactivityService stores inactivity trigger settings and records owner
// activity. Granting access is left to EvaluatorService.
type InactivityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewInactivityService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *InactivityService {
	return &InactivityService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "inactivity"),
		now:         time.Now,
	}
}

// ValidateThreshold checks that days lies in the accepted range.
func ValidateThreshold(days int) error {
	if days < common.MinInactiveDays || days > common.MaxInactiveDays {
		return common.ValidationError("threshold must be between %d and %d days", common.MinInactiveDays, common.MaxInactiveDays)
	}
	return nil
}

// ParseThreshold parses a threshold received as text.
func ParseThreshold(s string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, common.ValidationError("threshold must be a whole number of days")
	}
	if err := ValidateThreshold(days); err != nil {
		return 0, err
	}
	return days, nil
}

// UpsertSettings writes the trigger for userID. Saving counts as activity,
// and deactivating the trigger withdraws any standing grant.
func (s *InactivityService) UpsertSettings(ctx context.Context, userID string, in InactivitySettings) error {
	if err := ValidateThreshold(in.InactiveDaysThreshold); err != nil {
		return err
	}
	msg := strings.TrimSpace(in.CustomMessage)
	if utf8.RuneCountInString(msg) > MaxCustomMessageLength {
		return common.ValidationError("custom message must be at most %d characters", MaxCustomMessageLength)
	}

	now := s.now()
	t := &models.InactivityTrigger{
		UserID:                userID,
		IsActive:              in.IsActive,
		InactiveDaysThreshold: in.InactiveDaysThreshold,
		CustomMessage:         msg,
		Channels:              in.Channels,
		LastActivityAt:        now,
		UpdatedAt:             now,
	}
	if err := s.repomanager.Triggers(s.db).Upsert(ctx, t); err != nil {
		return fmt.Errorf("error saving inactivity settings: %w", err)
	}

	s.logger.Info(ctx, "inactivity settings saved", "user_id", userID,
		"is_active", in.IsActive, "threshold_days", in.InactiveDaysThreshold)
	return nil
}

func (s *InactivityService) GetSettings(ctx context.Context, userID string) (*models.InactivityTrigger, error) {
	t, err := s.repomanager.Triggers(s.db).Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error reading inactivity settings: %w", err)
	}
	return t, nil
}

// RecordActivity moves the owner's last activity to now. Owners without a
// trigger row are silently skipped.
func (s *InactivityService) RecordActivity(ctx context.Context, userID string) error {
	if err := s.repomanager.Triggers(s.db).TouchActivity(ctx, userID, s.now()); err != nil {
		return fmt.Errorf("error recording activity: %w", err)
	}
	return nil
}

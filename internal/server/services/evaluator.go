package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
	"github.com/dmitrijs2005/familyvault/internal/logging"
	"github.com/dmitrijs2005/familyvault/internal/mailer"
	"github.com/dmitrijs2005/familyvault/internal/server/models"
	"github.com/dmitrijs2005/familyvault/internal/server/repositories/repomanager"
)

// EvaluationReport summarizes one evaluator pass.
type EvaluationReport struct {
	Evaluated  int
	Granted    int
	Revoked    int
	Notified   int
	PurgedOTPs int64

	PurgedRefreshTokens int64
}

// EvaluatorService is the only writer of emergency_access_granted. It is
// run periodically out of the request path (see cmd/evaluator).
type EvaluatorService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      mailer.Sender
	logger      logging.Logger
	now         func() time.Time
}

func NewEvaluatorService(db *sql.DB, m repomanager.RepositoryManager, sender mailer.Sender, logger logging.Logger) *EvaluatorService {
	return &EvaluatorService{
		db:          db,
		repomanager: m,
		mailer:      sender,
		logger:      logger.With("module", "evaluator"),
		now:         time.Now,
	}
}

// EvaluateOnce grants access for every active trigger whose owner has been
// inactive for at least the threshold, withdraws grants of owners who came
// back, and purges expired one-time passwords. Per-account failures are
// collected and do not stop the pass.
func (s *EvaluatorService) EvaluateOnce(ctx context.Context) (EvaluationReport, error) {
	var (
		report EvaluationReport
		errs   []error
	)

	now := s.now()
	triggers, err := s.repomanager.Triggers(s.db).ListActive(ctx)
	if err != nil {
		return report, fmt.Errorf("error listing triggers: %w", err)
	}

	for _, t := range triggers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Evaluated++

		reached := t.ThresholdReached(now)
		switch {
		case reached && !t.EmergencyAccessGranted:
			changed, err := s.repomanager.Triggers(s.db).SetGranted(ctx, t.UserID, true, now)
			if err != nil {
				errs = append(errs, fmt.Errorf("grant %s: %w", t.UserID, err))
				continue
			}
			if !changed {
				continue
			}
			report.Granted++
			s.logger.Info(ctx, "emergency access granted", "user_id", t.UserID, "days_inactive", t.DaysSinceActivity(now))
			report.Notified += s.notify(ctx, t, now)

		case !reached && t.EmergencyAccessGranted:
			changed, err := s.repomanager.Triggers(s.db).SetGranted(ctx, t.UserID, false, now)
			if err != nil {
				errs = append(errs, fmt.Errorf("revoke %s: %w", t.UserID, err))
				continue
			}
			if changed {
				report.Revoked++
				s.logger.Info(ctx, "emergency access revoked", "user_id", t.UserID)
			}
		}
	}

	purged, err := s.repomanager.OTPTokens(s.db).PurgeExpired(ctx, now.Add(-common.OTPRetention))
	if err != nil {
		errs = append(errs, fmt.Errorf("purge codes: %w", err))
	}
	report.PurgedOTPs = purged

	purged, err = s.repomanager.RefreshTokens(s.db).PurgeExpired(ctx, now)
	if err != nil {
		errs = append(errs, fmt.Errorf("purge refresh tokens: %w", err))
	}
	report.PurgedRefreshTokens = purged

	return report, errors.Join(errs...)
}

// notify tells the verified nominees of t's owner that access is open and
// returns how many messages went out. Failures are logged only.
func (s *EvaluatorService) notify(ctx context.Context, t *models.InactivityTrigger, now time.Time) int {
	if t.Channels.SMS {
		s.logger.Warn(ctx, "sms notifications are not supported", "user_id", t.UserID)
	}
	if !t.Channels.Email {
		return 0
	}

	ownerName := "A Family Vault member"
	if owner, err := s.repomanager.Users(s.db).GetByID(ctx, t.UserID); err == nil && owner.DisplayName != "" {
		ownerName = owner.DisplayName
	}

	nominees, err := s.repomanager.Nominees(s.db).ListByUser(ctx, t.UserID)
	if err != nil {
		s.logger.Error(ctx, "listing nominees failed", "user_id", t.UserID, "error", err)
		return 0
	}

	sent := 0
	days := t.DaysSinceActivity(now)
	for _, n := range nominees {
		if !n.CanAuthenticate() {
			continue
		}
		msg, err := mailer.GrantMessage(n.Email, n.FullName, ownerName, t.CustomMessage, days)
		if err != nil {
			s.logger.Error(ctx, "rendering notification failed", "error", err)
			continue
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Error(ctx, "notification delivery failed", "user_id", t.UserID, "email", n.Email, "error", err)
			continue
		}
		sent++
	}
	return sent
}

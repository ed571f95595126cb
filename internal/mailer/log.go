package mailer

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/familyvault/internal/logging"
)

// LogSender records messages in the log instead of delivering them. It is
// used when no SMTP host is configured. Bodies are never logged since they
// may carry one-time passwords.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger.With("module", "mailer")}
}

func (s *LogSender) Send(ctx context.Context, m Message) error {
	if err := m.validate(); err != nil {
		return err
	}
	s.logger.Info(ctx, "mail not sent, no SMTP relay configured",
		"to", strings.Join(m.To, ","), "subject", m.Subject)
	return nil
}

// Package capability describes optional platform features the client may or
// may not have. The implementation is picked once at startup.
package capability

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/familyvault/internal/logging"
)

// NotifyEnvName selects the notification registrar: "log" logs
// registrations, anything else disables them.
const NotifyEnvName = "FAMILYVAULT_NOTIFY"

// NotificationRegistrar registers the signed-in owner for inactivity
// reminders on the local device.
type NotificationRegistrar interface {
	Available() bool
	Register(ctx context.Context, email string) error
	Unregister(ctx context.Context, email string) error
}

// Noop is used when the platform has no notification support.
type Noop struct{}

func (Noop) Available() bool                          { return false }
func (Noop) Register(context.Context, string) error   { return nil }
func (Noop) Unregister(context.Context, string) error { return nil }

// LogRegistrar records registrations in the client log.
type LogRegistrar struct {
	logger logging.Logger
}

func NewLogRegistrar(logger logging.Logger) *LogRegistrar {
	return &LogRegistrar{logger: logger.With("module", "notifications")}
}

func (r *LogRegistrar) Available() bool { return true }

func (r *LogRegistrar) Register(ctx context.Context, email string) error {
	r.logger.Info(ctx, "registered for inactivity reminders", "email", email)
	return nil
}

func (r *LogRegistrar) Unregister(ctx context.Context, email string) error {
	r.logger.Info(ctx, "unregistered from inactivity reminders", "email", email)
	return nil
}

// FromEnv picks a registrar using getenv, normally os.Getenv.
func FromEnv(getenv func(string) string, logger logging.Logger) NotificationRegistrar {
	switch strings.ToLower(strings.TrimSpace(getenv(NotifyEnvName))) {
	case "log":
		return NewLogRegistrar(logger)
	default:
		return Noop{}
	}
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/rpc"
)

var getMultiline = readMultiline

func (a *App) ShowSettings(ctx context.Context) error {
	s, err := a.api.GetSettings(ctx)
	if err != nil {
		return err
	}
	a.printSettings(s)
	return nil
}

func (a *App) printSettings(s *rpc.Settings) {
	state := "off"
	if s.IsActive {
		state = "on"
	}
	a.println("Inactivity trigger:", state)
	a.println("Threshold:", fmt.Sprintf("%d days", s.InactiveDaysThreshold))
	a.println("Notify by email:", s.NotifyEmail, " by SMS:", s.NotifySMS)
	if !s.LastActivityAt.IsZero() {
		a.println("Last activity:", s.LastActivityAt.Local().Format(time.DateTime))
	}
	if s.CustomMessage != "" {
		a.println("Message to nominees:")
		a.println(s.CustomMessage)
	}
	if s.EmergencyAccessGranted {
		a.println("Emergency access is currently GRANTED to your nominees.")
	}
}

// EditSettings walks through every trigger field, offering the current
// value as the default.
func (a *App) EditSettings(ctx context.Context) error {
	cur, err := a.api.GetSettings(ctx)
	if err != nil {
		return err
	}

	next := rpc.Settings{CustomMessage: cur.CustomMessage}
	if next.IsActive, err = readYesNo(a.reader, "Enable the inactivity trigger?", cur.IsActive, a.out); err != nil {
		return err
	}
	if next.InactiveDaysThreshold, err = readInt(a.reader, "Days of inactivity before nominees get access", cur.InactiveDaysThreshold, a.out); err != nil {
		return err
	}
	if next.NotifyEmail, err = readYesNo(a.reader, "Notify nominees by email?", cur.NotifyEmail, a.out); err != nil {
		return err
	}
	if next.NotifySMS, err = readYesNo(a.reader, "Notify nominees by SMS?", cur.NotifySMS, a.out); err != nil {
		return err
	}
	msg, err := getMultiline(a.reader, "Message to nominees (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	if msg != "" {
		next.CustomMessage = msg
	}

	if err := a.api.UpdateSettings(ctx, next); err != nil {
		return err
	}
	a.println("Settings saved.")
	return nil
}

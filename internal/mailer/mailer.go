// Package mailer delivers transactional email: one-time passwords, nominee
// invitations and emergency-access notifications.
package mailer

import (
	"context"
	"errors"
)

// Message is one outgoing email. From and ReplyTo fall back to the sender's
// configured defaults when empty.
type Message struct {
	To      []string
	Subject string
	HTML    string
	From    string
	ReplyTo string
}

// Sender delivers a Message. Implementations must honour ctx cancellation
// before starting delivery.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

var errNoRecipients = errors.New("message has no recipients")

func (m Message) validate() error {
	if len(m.To) == 0 {
		return errNoRecipients
	}
	return nil
}

package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds one delivery when the sender is built without one.
const DefaultTimeout = 30 * time.Second

// sendMail delivers one message over SMTP; replaced in tests.
var sendMail = deliver

// SMTPSender relays messages through an SMTP server with PLAIN auth.
type SMTPSender struct {
	addr    string
	auth    smtp.Auth
	from    string
	replyTo string
	timeout time.Duration
}

// NewSMTPSender builds a sender for host:port. Auth is skipped when user is
// empty. A non-positive timeout selects DefaultTimeout.
func NewSMTPSender(host string, port int, user, password, from, replyTo string, timeout time.Duration) *SMTPSender {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SMTPSender{
		addr:    net.JoinHostPort(host, strconv.Itoa(port)),
		auth:    auth,
		from:    from,
		replyTo: replyTo,
		timeout: timeout,
	}
}

// Send delivers m. The exchange is abandoned when ctx ends or the sender's
// timeout passes, whichever comes first.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := m.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if m.From == "" {
		m.From = s.from
	}
	if m.ReplyTo == "" {
		m.ReplyTo = s.replyTo
	}

	envelopeFrom, err := addressOnly(m.From)
	if err != nil {
		return fmt.Errorf("bad from address: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := sendMail(ctx, s.addr, s.auth, envelopeFrom, m.To, buildMIME(m, time.Now())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// deliver runs one SMTP session on a connection whose deadline follows ctx.
func deliver(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	// Once ctx is done every pending read or write fails at once.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return interrupted(ctx, "greeting", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return interrupted(ctx, "starttls", err)
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("server does not support AUTH")
		}
		if err := c.Auth(a); err != nil {
			return interrupted(ctx, "auth", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return interrupted(ctx, "mail from", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return interrupted(ctx, "rcpt "+rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return interrupted(ctx, "data", err)
	}
	if _, err := w.Write(msg); err != nil {
		return interrupted(ctx, "data", err)
	}
	if err := w.Close(); err != nil {
		return interrupted(ctx, "data", err)
	}
	return interrupted(ctx, "quit", c.Quit())
}

// interrupted reports ctx's error in place of the I/O timeout it caused.
func interrupted(ctx context.Context, step string, err error) error {
	if err == nil {
		return nil
	}
	if cerr := ctx.Err(); cerr != nil {
		return fmt.Errorf("%s: %w", step, cerr)
	}
	return fmt.Errorf("%s: %w", step, err)
}

func addressOnly(from string) (string, error) {
	a, err := mail.ParseAddress(from)
	if err != nil {
		return "", err
	}
	return a.Address, nil
}

func buildMIME(m Message, now time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.To, ", "))
	if m.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", m.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.HTML)
	return b.Bytes()
}

// Package email delivers outbound notifications over SMTP.
//
// Delivery is fire and forget: callers enqueue a message and move on,
// a background sender drains the queue, and failures are logged but
// never surfaced to the request that triggered them.
package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/daydeskapp/daydesk-server/internal/config"
)

// Mailer sends a single message. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer delivers mail through a configured SMTP relay.
type SMTPMailer struct {
	cfg config.EmailConfig
}

// NewSMTPMailer creates a mailer for the given SMTP configuration.
func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one message. Delivery silently succeeds when SMTP is not
// configured so callers never need to branch on deployment setup.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if !m.cfg.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.cfg.From, to, subject, body)

	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}

// NoopMailer discards every message. Used in tests and when running
// without an SMTP relay.
type NoopMailer struct{}

// Send implements Mailer as a no-op.
func (NoopMailer) Send(context.Context, string, string, string) error { return nil }

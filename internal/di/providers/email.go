package providers

import (
	"github.com/samber/do/v2"

	"github.com/daydeskapp/daydesk-server/internal/config"
	"github.com/daydeskapp/daydesk-server/internal/email"
	"github.com/daydeskapp/daydesk-server/internal/logger"
	"github.com/daydeskapp/daydesk-server/internal/ratelimit"
)

// Outbound mail is throttled so a burst of signups cannot flood the relay.
const (
	mailRatePerSecond = 1.0
	mailBurst         = 5
)

// ProvideMailer provides the mail transport. Falls back to a no-op
// transport when SMTP is not configured.
func ProvideMailer(i do.Injector) (email.Mailer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Email.Enabled() {
		log.Info("Email delivery disabled, messages will be discarded")
		return email.NoopMailer{}, nil
	}

	log.Info("Email delivery enabled", "host", cfg.Email.Host, "from", cfg.Email.From)
	return email.NewSMTPMailer(cfg.Email), nil
}

// SenderHandle wraps the email sender with lifecycle management.
type SenderHandle struct {
	*email.Sender
}

// Shutdown drains the outbound queue when the injector shuts down.
func (h *SenderHandle) Shutdown() error {
	h.Sender.Close()
	return nil
}

// ProvideSender provides the async email sender.
func ProvideSender(i do.Injector) (*SenderHandle, error) {
	mailer := do.MustInvoke[email.Mailer](i)
	log := do.MustInvoke[*logger.Logger](i)

	limiter := ratelimit.New(mailRatePerSecond, mailBurst)
	sender := email.NewSender(mailer, limiter, log.Logger)

	return &SenderHandle{Sender: sender}, nil
}

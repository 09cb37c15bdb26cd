package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	"github.com/daydeskapp/daydesk-server/internal/ratelimit"
)

// queueSize bounds how many undelivered messages can pile up before
// new ones are dropped.
const queueSize = 64

// outboundKey identifies the single shared SMTP budget in the rate limiter.
const outboundKey = "smtp"

type message struct {
	to      string
	subject string
	body    string
}

// Sender drains a bounded queue of outbound messages on a background
// goroutine, pacing deliveries through a rate limiter so a burst of
// signups cannot hammer the relay.
type Sender struct {
	mailer  Mailer
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger

	queue  chan message
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSender starts the background delivery loop.
func NewSender(mailer Mailer, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Sender {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Sender{
		mailer:  mailer,
		limiter: limiter,
		logger:  logger,
		queue:   make(chan message, queueSize),
		cancel:  cancel,
	}

	s.wg.Add(1)
	go s.run(ctx)

	return s
}

// Enqueue schedules a message for delivery and returns immediately.
// A full queue drops the message with a log line rather than blocking
// the request that produced it.
func (s *Sender) Enqueue(to, subject, body string) {
	select {
	case s.queue <- message{to: to, subject: subject, body: body}:
	default:
		s.logger.Warn("email queue full, dropping message",
			"to", to,
			"subject", subject,
		)
	}
}

// Close stops the delivery loop. Messages already in the queue are
// abandoned; fire-and-forget delivery makes no completeness promise.
func (s *Sender) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Sender) run(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.queue:
			if err := s.limiter.Wait(ctx, outboundKey); err != nil {
				return
			}
			if err := s.mailer.Send(ctx, msg.to, msg.subject, msg.body); err != nil {
				s.logger.Error("email delivery failed",
					"to", msg.to,
					"subject", msg.subject,
					"error", err,
				)
				continue
			}
			s.logger.Debug("email delivered",
				"to", msg.to,
				"subject", msg.subject,
			)
		}
	}
}

// SendInvitation notifies someone they have been invited to collaborate.
func (s *Sender) SendInvitation(to, inviterName string) {
	subject := "You've been invited to DayDesk"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Workspace Invitation</h2>
			<p>Hi,</p>
			<p><strong>%s</strong> has invited you to collaborate on DayDesk.</p>
			<p>Sign up with this email address to accept the invitation.</p>
		</body>
		</html>
	`, html.EscapeString(inviterName))

	s.Enqueue(to, subject, body)
}

// SendContactNotification forwards a stored contact-form message to the
// configured recipient.
func (s *Sender) SendContactNotification(recipient string, msg *domain.ContactMessage) {
	if recipient == "" {
		return
	}

	subject := fmt.Sprintf("Contact form: %s", msg.Subject)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>New Contact Message</h2>
			<p><strong>From:</strong> %s (%s)</p>
			<p><strong>Subject:</strong> %s</p>
			<p>%s</p>
		</body>
		</html>
	`, html.EscapeString(msg.Name), html.EscapeString(msg.Email),
		html.EscapeString(msg.Subject), html.EscapeString(msg.Message))

	s.Enqueue(recipient, subject, body)
}

// SendPasswordReset tells a user how to regain access to their account.
// resetLink carries the single-use token issued for this request.
func (s *Sender) SendPasswordReset(to, resetLink string) {
	subject := "DayDesk password reset"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Password Reset</h2>
			<p>A password reset was requested for your DayDesk account.</p>
			<p><a href="%s">Choose a new password</a>. The link expires in one hour.</p>
			<p>If this wasn't you, you can safely ignore this message.</p>
		</body>
		</html>
	`, resetLink)

	s.Enqueue(to, subject, body)
}

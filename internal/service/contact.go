package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	"github.com/daydeskapp/daydesk-server/internal/email"
	"github.com/daydeskapp/daydesk-server/internal/id"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

// ContactService handles public contact form submissions. Messages are
// stored first so a mail relay outage never loses a submission.
type ContactService struct {
	store     *store.Store
	sender    *email.Sender
	recipient string
	logger    *slog.Logger
}

// NewContactService creates a new contact service. recipient is the
// site owner's address; when empty, submissions are stored but no
// notification is sent.
func NewContactService(store *store.Store, sender *email.Sender, recipient string, logger *slog.Logger) *ContactService {
	return &ContactService{
		store:     store,
		sender:    sender,
		recipient: recipient,
		logger:    logger,
	}
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,min=10,max=1000"`
}

// Submit stores the message and notifies the site owner in the
// background.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (*domain.ContactMessage, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	contactID, err := id.Generate("contact")
	if err != nil {
		return nil, fmt.Errorf("generate contact ID: %w", err)
	}

	msg := &domain.ContactMessage{
		Record: domain.Record{
			ID: contactID,
		},
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	msg.InitTimestamps()

	if err := s.store.Contacts.Create(ctx, msg.ID, msg); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}

	s.sender.SendContactNotification(s.recipient, msg)

	s.logger.Info("Contact message received",
		"contact_id", msg.ID,
		"from", msg.Email,
	)
	return msg, nil
}

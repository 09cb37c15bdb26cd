package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
)

func setupContactTest(t *testing.T) *ContactService {
	t.Helper()
	return NewContactService(newTestStore(t), newTestSender(t), "owner@example.com", testLogger())
}

func TestContactService_Submit(t *testing.T) {
	svc := setupContactTest(t)

	msg, err := svc.Submit(context.Background(), ContactRequest{
		Name:    "Dana",
		Email:   "dana@example.com",
		Subject: "Question",
		Message: "How do I export my tasks to a file?",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "Dana", msg.Name)

	// Stored, not just emailed.
	stored, err := svc.store.Contacts.Get(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "How do I export my tasks to a file?", stored.Message)
}

func TestContactService_Submit_Validation(t *testing.T) {
	svc := setupContactTest(t)

	tests := []struct {
		name string
		req  ContactRequest
	}{
		{"missing name", ContactRequest{Email: "d@example.com", Message: "long enough message"}},
		{"short name", ContactRequest{Name: "D", Email: "d@example.com", Message: "long enough message"}},
		{"bad email", ContactRequest{Name: "Dana", Email: "nope", Message: "long enough message"}},
		{"short message", ContactRequest{Name: "Dana", Email: "d@example.com", Message: "too short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestContactService_Submit_NoRecipientStillStores(t *testing.T) {
	svc := NewContactService(newTestStore(t), newTestSender(t), "", testLogger())

	msg, err := svc.Submit(context.Background(), ContactRequest{
		Name:    "Dana",
		Email:   "dana@example.com",
		Message: "A message that nobody is configured to receive.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
}

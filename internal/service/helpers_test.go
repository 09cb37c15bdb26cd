package service

import (
	"crypto/rand"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daydeskapp/daydesk-server/internal/auth"
	"github.com/daydeskapp/daydesk-server/internal/email"
	"github.com/daydeskapp/daydesk-server/internal/ratelimit"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

// newTestStore opens a store backed by a temporary directory.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// newTestTokenService creates a token service with a fresh random key.
func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	ts, err := auth.NewTokenServiceFromBytes(key, time.Hour)
	require.NoError(t, err)
	return ts
}

// newTestSender creates a sender that delivers to nothing.
func newTestSender(t *testing.T) *email.Sender {
	t.Helper()

	sender := email.NewSender(email.NoopMailer{}, ratelimit.New(1000, 1000), testLogger())
	t.Cleanup(sender.Close)
	return sender
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
)

func setupAuthTest(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newTestStore(t), newTestTokenService(t), newTestSender(t), "http://localhost:8080", testLogger())
}

func signupTestUser(t *testing.T, svc *AuthService, email string) *AuthResponse {
	t.Helper()

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Email:       email,
		Password:    "password123",
		DisplayName: "Test User",
	})
	require.NoError(t, err)
	return resp
}

func TestAuthService_Signup(t *testing.T) {
	svc := setupAuthTest(t)

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Email:       "dana@example.com",
		Password:    "password123",
		DisplayName: "Dana",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.UID)
	assert.Equal(t, "dana@example.com", resp.Email)
	assert.Equal(t, "Dana", resp.DisplayName)
	assert.NotEmpty(t, resp.Token)

	// Default preferences come back with the signup response.
	require.NotNil(t, resp.Preferences)
	assert.Equal(t, domain.ColorModeNone, resp.Preferences.ColorMode)
	assert.True(t, resp.Preferences.CardOptions.ShowDescription)

	// The returned token resolves straight back to the new account.
	profile, err := svc.VerifyToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UID, profile.UID)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc := setupAuthTest(t)
	signupTestUser(t, svc, "dana@example.com")

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:       "dana@example.com",
		Password:    "password123",
		DisplayName: "Imposter",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthService_Signup_DuplicateEmailDifferentCase(t *testing.T) {
	svc := setupAuthTest(t)
	signupTestUser(t, svc, "dana@example.com")

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email:       "DANA@Example.COM",
		Password:    "password123",
		DisplayName: "Imposter",
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := setupAuthTest(t)

	tests := []struct {
		name string
		req  SignupRequest
	}{
		{"missing email", SignupRequest{Password: "password123", DisplayName: "Dana"}},
		{"bad email", SignupRequest{Email: "not-an-email", Password: "password123", DisplayName: "Dana"}},
		{"short password", SignupRequest{Email: "dana@example.com", Password: "12345", DisplayName: "Dana"}},
		{"short display name", SignupRequest{Email: "dana@example.com", Password: "password123", DisplayName: "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestAuthService_Signin(t *testing.T) {
	svc := setupAuthTest(t)
	created := signupTestUser(t, svc, "dana@example.com")

	resp, err := svc.Signin(context.Background(), SigninRequest{
		Email:    "dana@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, created.UID, resp.UID)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.Preferences)

	// The minted token resolves back to the account.
	profile, err := svc.VerifyToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.UID, profile.UID)
}

func TestAuthService_Signin_WrongPassword(t *testing.T) {
	svc := setupAuthTest(t)
	signupTestUser(t, svc, "dana@example.com")

	_, err := svc.Signin(context.Background(), SigninRequest{
		Email:    "dana@example.com",
		Password: "not-the-password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Signin_UnknownEmail(t *testing.T) {
	svc := setupAuthTest(t)

	// Same error as a wrong password so responses never reveal
	// whether an account exists.
	_, err := svc.Signin(context.Background(), SigninRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_VerifyToken_Invalid(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.VerifyToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthService_Authenticate_DeletedAccount(t *testing.T) {
	svc := setupAuthTest(t)
	resp := signupTestUser(t, svc, "dana@example.com")

	require.NoError(t, svc.DeleteAccount(context.Background(), resp.UID))

	// The token is still cryptographically valid but the account is gone.
	_, err := svc.Authenticate(context.Background(), resp.Token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc := setupAuthTest(t)
	resp := signupTestUser(t, svc, "dana@example.com")

	name := "Dana Updated"
	photo := "https://example.com/dana.jpg"
	profile, err := svc.UpdateProfile(context.Background(), resp.UID, UpdateProfileRequest{
		DisplayName: &name,
		PhotoURL:    &photo,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana Updated", profile.DisplayName)
	assert.Equal(t, "https://example.com/dana.jpg", profile.PhotoURL)

	// Email is untouched by profile updates.
	assert.Equal(t, "dana@example.com", profile.Email)
}

func TestAuthService_UpdateProfile_Preferences(t *testing.T) {
	svc := setupAuthTest(t)
	resp := signupTestUser(t, svc, "dana@example.com")

	prefs := domain.Preferences{
		ColorMode: domain.ColorModePriority,
		CardOptions: domain.CardOptions{
			ShowPriority: true,
		},
	}
	profile, err := svc.UpdateProfile(context.Background(), resp.UID, UpdateProfileRequest{
		Preferences: &prefs,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ColorModePriority, profile.Preferences.ColorMode)
	assert.False(t, profile.Preferences.CardOptions.ShowDescription)
	assert.True(t, profile.Preferences.CardOptions.ShowPriority)
	assert.Equal(t, resp.UID, profile.Preferences.UserID)
}

func TestAuthService_GetProfile_NotFound(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.GetProfile(context.Background(), "user-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	svc := setupAuthTest(t)
	signupTestUser(t, svc, "dana@example.com")

	err := svc.RequestPasswordReset(context.Background(), PasswordResetRequest{
		Email: "dana@example.com",
	})
	assert.NoError(t, err)
}

func TestAuthService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	svc := setupAuthTest(t)

	err := svc.RequestPasswordReset(context.Background(), PasswordResetRequest{
		Email: "nobody@example.com",
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

// issuedResetToken returns the single reset token currently stored.
func issuedResetToken(t *testing.T, svc *AuthService) string {
	t.Helper()

	var token string
	for reset, err := range svc.store.PasswordResets.List(context.Background()) {
		require.NoError(t, err)
		require.Empty(t, token, "expected exactly one reset token")
		token = reset.ID
	}
	require.NotEmpty(t, token)
	return token
}

func TestAuthService_ConfirmPasswordReset(t *testing.T) {
	svc := setupAuthTest(t)
	signupTestUser(t, svc, "dana@example.com")

	err := svc.RequestPasswordReset(context.Background(), PasswordResetRequest{
		Email: "dana@example.com",
	})
	require.NoError(t, err)

	token := issuedResetToken(t, svc)
	err = svc.ConfirmPasswordReset(context.Background(), ConfirmPasswordResetRequest{
		Token:    token,
		Password: "brand-new-password",
	})
	require.NoError(t, err)

	// The new password signs in, the old one no longer does.
	_, err = svc.Signin(context.Background(), SigninRequest{
		Email:    "dana@example.com",
		Password: "brand-new-password",
	})
	assert.NoError(t, err)

	_, err = svc.Signin(context.Background(), SigninRequest{
		Email:    "dana@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	// The token is single use.
	err = svc.ConfirmPasswordReset(context.Background(), ConfirmPasswordResetRequest{
		Token:    token,
		Password: "another-password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthService_ConfirmPasswordReset_UnknownToken(t *testing.T) {
	svc := setupAuthTest(t)

	err := svc.ConfirmPasswordReset(context.Background(), ConfirmPasswordResetRequest{
		Token:    "reset-nonexistent",
		Password: "whatever-works",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthService_ConfirmPasswordReset_Expired(t *testing.T) {
	svc := setupAuthTest(t)
	user := signupTestUser(t, svc, "dana@example.com")

	reset := &domain.PasswordReset{
		Record:    domain.Record{ID: "reset-stale"},
		UserID:    user.UID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	reset.InitTimestamps()
	require.NoError(t, svc.store.PasswordResets.Create(context.Background(), reset.ID, reset))

	err := svc.ConfirmPasswordReset(context.Background(), ConfirmPasswordResetRequest{
		Token:    "reset-stale",
		Password: "brand-new-password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	// The expired token is discarded, so the record does not linger.
	_, err = svc.store.PasswordResets.Get(context.Background(), "reset-stale")
	assert.Error(t, err)
}

func TestAuthService_DeleteAccount(t *testing.T) {
	svc := setupAuthTest(t)
	resp := signupTestUser(t, svc, "dana@example.com")

	require.NoError(t, svc.DeleteAccount(context.Background(), resp.UID))

	_, err := svc.GetProfile(context.Background(), resp.UID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// Deleting twice reports not found.
	err = svc.DeleteAccount(context.Background(), resp.UID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAuthService_GetUserByEmail(t *testing.T) {
	svc := setupAuthTest(t)
	resp := signupTestUser(t, svc, "dana@example.com")

	summary, err := svc.GetUserByEmail(context.Background(), "Dana@Example.com")
	require.NoError(t, err)
	assert.Equal(t, resp.UID, summary.UID)

	_, err = svc.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAuthService_ListUsers(t *testing.T) {
	svc := setupAuthTest(t)
	signupTestUser(t, svc, "a@example.com")
	signupTestUser(t, svc, "b@example.com")
	signupTestUser(t, svc, "c@example.com")

	users, err := svc.ListUsers(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	// Zero falls back to the default page size.
	users, err = svc.ListUsers(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestAuthService_Invite(t *testing.T) {
	svc := setupAuthTest(t)
	resp := signupTestUser(t, svc, "dana@example.com")

	require.NoError(t, svc.Invite(context.Background(), resp.UID, InviteRequest{
		Email: "friend@example.com",
	}))

	invites, err := svc.ListInvitations(context.Background(), resp.UID)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	assert.Equal(t, "friend@example.com", invites[0].Email)
	assert.Equal(t, resp.UID, invites[0].InviterID)
	assert.Equal(t, domain.InviteStatusPending, invites[0].Status)
}

func TestAuthService_ListInvitations_OnlyOwn(t *testing.T) {
	svc := setupAuthTest(t)
	alice := signupTestUser(t, svc, "alice@example.com")
	bob := signupTestUser(t, svc, "bob@example.com")

	require.NoError(t, svc.Invite(context.Background(), alice.UID, InviteRequest{Email: "x@example.com"}))
	require.NoError(t, svc.Invite(context.Background(), bob.UID, InviteRequest{Email: "y@example.com"}))

	invites, err := svc.ListInvitations(context.Background(), alice.UID)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	assert.Equal(t, "x@example.com", invites[0].Email)
}

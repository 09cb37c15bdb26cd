package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/daydeskapp/daydesk-server/internal/auth"
	"github.com/daydeskapp/daydesk-server/internal/domain"
	"github.com/daydeskapp/daydesk-server/internal/email"
	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
	"github.com/daydeskapp/daydesk-server/internal/id"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

// resetTokenDuration is how long a password reset link stays valid.
const resetTokenDuration = time.Hour

// AuthService handles accounts: signup, signin, token verification,
// profiles, password resets, invitations, and account deletion.
type AuthService struct {
	store        *store.Store
	tokenService *auth.TokenService
	sender       *email.Sender
	publicURL    string
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service. publicURL is the
// externally reachable base URL used to build password reset links.
func NewAuthService(
	store *store.Store,
	tokenService *auth.TokenService,
	sender *email.Sender,
	publicURL string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		sender:       sender,
		publicURL:    strings.TrimRight(publicURL, "/"),
		logger:       logger,
	}
}

// SignupRequest contains new account registration data.
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=1024"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=50"`
}

// SigninRequest contains login credentials.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned whenever credentials are exchanged for a
// token, on signup and on signin.
type AuthResponse struct {
	UID         string              `json:"uid"`
	Email       string              `json:"email"`
	DisplayName string              `json:"displayName"`
	Token       string              `json:"token"`
	Preferences *domain.Preferences `json:"preferences"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// UpdateProfileRequest contains partial profile updates. Nil fields are
// left untouched.
type UpdateProfileRequest struct {
	DisplayName *string             `json:"displayName,omitempty" validate:"omitempty,min=2,max=50"`
	PhotoURL    *string             `json:"photoURL,omitempty" validate:"omitempty,url"`
	Preferences *domain.Preferences `json:"preferences,omitempty"`
}

// PasswordResetRequest asks for a reset email.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ConfirmPasswordResetRequest redeems a reset token for a new password.
type ConfirmPasswordResetRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
}

// InviteRequest asks to invite someone by email.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Signup creates a new account and returns a token for immediate login.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Record: domain.Record{
			ID: userID,
		},
		Email:        req.Email,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
	}
	user.InitTimestamps()

	if err := s.store.Users.Create(ctx, user.ID, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Every account starts with default preferences so the client never
	// has to special-case a missing record.
	prefs := domain.DefaultPreferences(user.ID)
	if err := s.store.SavePreferences(ctx, prefs); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("User registered",
		"user_id", user.ID,
		"email", user.Email,
	)

	return &AuthResponse{
		UID:         user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Token:       token,
		Preferences: prefs,
		CreatedAt:   user.CreatedAt,
	}, nil
}

// Signin verifies credentials and mints a fresh access token. Unknown
// emails and wrong passwords produce the same error so the response
// never confirms whether an account exists.
func (s *AuthService) Signin(ctx context.Context, req SigninRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	prefs, err := s.store.GetPreferences(ctx, user.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	if prefs == nil {
		prefs = domain.DefaultPreferences(user.ID)
	}

	s.logger.Info("User signed in", "user_id", user.ID)

	return &AuthResponse{
		UID:         user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Token:       token,
		Preferences: prefs,
		CreatedAt:   user.CreatedAt,
	}, nil
}

// VerifyToken validates a bearer token and returns the full profile of
// the user it identifies.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.Profile, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, claims.UserID)
}

// Authenticate resolves a bearer token to a verified identity.
// Used by the authentication middleware.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	// Confirm the account still exists; tokens outlive deletions.
	if _, err := s.store.Users.Get(ctx, claims.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("account no longer exists")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	identity := claims.Identity()
	return &identity, nil
}

// GetProfile returns a user's merged identity and preferences view.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	prefs, err := s.store.GetPreferences(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	return domain.MergeProfile(user, prefs), nil
}

// UpdateProfile applies partial updates to the user record and their
// preferences, then returns the refreshed profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.Profile, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	changed := false
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
		changed = true
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
		changed = true
	}

	if changed {
		user.Touch()
		if err := s.store.Users.Update(ctx, userID, user); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}

	if req.Preferences != nil {
		prefs := *req.Preferences
		prefs.UserID = userID
		prefs.UpdatedAt = time.Now()
		if err := s.store.SavePreferences(ctx, &prefs); err != nil {
			return nil, fmt.Errorf("save preferences: %w", err)
		}
	}

	return s.GetProfile(ctx, userID)
}

// RequestPasswordReset issues a single-use reset token and emails the
// link to an existing account. Delivery is fire and forget; the caller
// only learns whether the account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	user, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("no user found with this email")
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	token, err := id.Generate("reset")
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	reset := &domain.PasswordReset{
		Record: domain.Record{
			ID: token,
		},
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenDuration),
	}
	reset.InitTimestamps()

	if err := s.store.PasswordResets.Create(ctx, reset.ID, reset); err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.publicURL, token)
	s.sender.SendPasswordReset(user.Email, link)

	s.logger.Info("Password reset requested",
		"user_id", user.ID,
	)
	return nil
}

// ConfirmPasswordReset redeems a reset token and stores the new
// password hash. Tokens are single use; expired or already-used ones
// are rejected.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req ConfirmPasswordResetRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	reset, err := s.store.PasswordResets.Get(ctx, req.Token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Unauthorized("invalid or expired reset token")
		}
		return fmt.Errorf("get reset token: %w", err)
	}

	if reset.Expired(time.Now()) {
		if err := s.store.PasswordResets.Delete(ctx, reset.ID); err != nil {
			s.logger.Warn("Failed to delete expired reset token", "error", err)
		}
		return domainerrors.TokenExpired("reset token expired")
	}

	user, err := s.store.Users.Get(ctx, reset.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Unauthorized("invalid or expired reset token")
		}
		return fmt.Errorf("get user: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = passwordHash
	user.Touch()
	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if err := s.store.PasswordResets.Delete(ctx, reset.ID); err != nil {
		s.logger.Warn("Failed to delete redeemed reset token", "error", err)
	}

	s.logger.Info("Password reset completed", "user_id", user.ID)
	return nil
}

// DeleteAccount removes the user record and everything keyed off it
// that would otherwise leak: preferences and stored avatar state stay
// behind only as orphaned files cleaned up out of band.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.Users.Delete(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.store.DeletePreferences(ctx, userID); err != nil {
		s.logger.Warn("Failed to delete preferences for removed account",
			"user_id", userID,
			"error", err,
		)
	}

	s.logger.Info("Account deleted", "user_id", userID)
	return nil
}

// GetUserByEmail returns a minimal summary for an email lookup.
func (s *AuthService) GetUserByEmail(ctx context.Context, emailAddr string) (*domain.UserSummary, error) {
	user, err := s.store.Users.GetByIndex(ctx, "email", emailAddr)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	summary := user.Summary()
	return &summary, nil
}

// ListUsers returns up to maxResults user summaries.
func (s *AuthService) ListUsers(ctx context.Context, maxResults int) ([]domain.UserSummary, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	users := make([]domain.UserSummary, 0, maxResults)
	for user, err := range s.store.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, user.Summary())
		if len(users) == maxResults {
			break
		}
	}

	return users, nil
}

// Invite stores an invitation and emails the invitee.
func (s *AuthService) Invite(ctx context.Context, inviterID string, req InviteRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	inviteID, err := id.Generate("invite")
	if err != nil {
		return fmt.Errorf("generate invite ID: %w", err)
	}

	invite := &domain.Invitation{
		Record: domain.Record{
			ID: inviteID,
		},
		Email:     req.Email,
		InviterID: inviterID,
		Status:    domain.InviteStatusPending,
	}
	invite.InitTimestamps()

	if err := s.store.Invitations.Create(ctx, invite.ID, invite); err != nil {
		return fmt.Errorf("create invitation: %w", err)
	}

	inviterName := "A colleague"
	if inviter, err := s.store.Users.Get(ctx, inviterID); err == nil && inviter.DisplayName != "" {
		inviterName = inviter.DisplayName
	}
	s.sender.SendInvitation(req.Email, inviterName)

	s.logger.Info("Invitation created",
		"invite_id", inviteID,
		"inviter_id", inviterID,
	)
	return nil
}

// ListInvitations returns every invitation the user has sent.
func (s *AuthService) ListInvitations(ctx context.Context, inviterID string) ([]*domain.Invitation, error) {
	invites := make([]*domain.Invitation, 0)
	for invite, err := range s.store.Invitations.ListScoped(ctx, "inviter", inviterID) {
		if err != nil {
			return nil, fmt.Errorf("list invitations: %w", err)
		}
		invites = append(invites, invite)
	}
	return invites, nil
}

// Logout records the event. Tokens are stateless, so there is nothing
// to revoke server side; clients discard their copy.
func (s *AuthService) Logout(_ context.Context, userID string) {
	if userID != "" {
		s.logger.Info("User logged out", "user_id", userID)
	}
}

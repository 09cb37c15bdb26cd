package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/daydeskapp/daydesk-server/internal/http/response"
	"github.com/daydeskapp/daydesk-server/internal/service"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	result, err := s.authService.Signup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, "User created successfully", result, s.logger)
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req service.SigninRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	result, err := s.authService.Signin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Signed in successfully", result, s.logger)
}

// verifyTokenRequest carries a token in the body. A bearer header works
// too, so clients can verify whichever way is convenient.
type verifyTokenRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		var req verifyTokenRequest
		if err := decodeJSON(r, &req); err == nil {
			token = req.Token
		}
	}
	if token == "" {
		response.Unauthorized(w, "No token provided", s.logger)
		return
	}

	profile, err := s.authService.VerifyToken(r.Context(), token)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Token verified", profile, s.logger)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	profile, err := s.authService.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", profile, s.logger)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	profile, err := s.authService.UpdateProfile(r.Context(), identity.UserID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Profile updated successfully", profile, s.logger)
}

func (s *Server) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req service.PasswordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.authService.RequestPasswordReset(r.Context(), req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Password reset email sent", nil, s.logger)
}

func (s *Server) handleConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req service.ConfirmPasswordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.authService.ConfirmPasswordReset(r.Context(), req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Password updated successfully", nil, s.logger)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	s.authService.Logout(r.Context(), identity.UserID)
	response.Success(w, "Logged out successfully", nil, s.logger)
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	var req service.InviteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.authService.Invite(r.Context(), identity.UserID, req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, "Invitation sent", nil, s.logger)
}

func (s *Server) handleListInvites(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	invites, err := s.authService.ListInvitations(r.Context(), identity.UserID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", invites, s.logger)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	if err := s.authService.DeleteAccount(r.Context(), identity.UserID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "Account deleted successfully", nil, s.logger)
}

func (s *Server) handleGetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	user, err := s.authService.GetUserByEmail(r.Context(), email)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", user, s.logger)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	maxResults := 0
	if raw := r.URL.Query().Get("maxResults"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			maxResults = n
		}
	}

	users, err := s.authService.ListUsers(r.Context(), maxResults)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, "", users, s.logger)
}

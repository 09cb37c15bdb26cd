package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/daydeskapp/daydesk-server/internal/auth"
	"github.com/daydeskapp/daydesk-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyIdentity contextKey = "identity"

// bearerToken extracts the token from an Authorization header.
// Returns "" when the header is missing or malformed.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// requireAuth validates the access token and attaches the caller
// identity to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Unauthorized(w, "Missing or malformed authorization header", s.logger)
			return
		}

		identity, err := s.authService.Authenticate(r.Context(), token)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyIdentity, *identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuth attaches the caller identity when a valid token is
// present and lets the request through either way.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if identity, err := s.authService.Authenticate(r.Context(), token); err == nil {
				ctx := context.WithValue(r.Context(), contextKeyIdentity, *identity)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// identityFrom extracts the authenticated caller from request context.
// The zero Identity means unauthenticated.
func identityFrom(ctx context.Context) auth.Identity {
	if identity, ok := ctx.Value(contextKeyIdentity).(auth.Identity); ok {
		return identity
	}
	return auth.Identity{}
}

// rateLimitByIP rejects clients that exceed the per-IP budget on the
// endpoints it guards.
func (s *Server) rateLimitByIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := getClientIP(r)
		if !s.authLimiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded",
				"ip", key,
				"path", r.URL.Path,
			)
			response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

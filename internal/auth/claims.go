package auth

import (
	"time"
)

// AccessClaims represents the claims stored in a PASETO access token.
// These are encrypted in v4.local tokens, so they're not readable without the key.
type AccessClaims struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// Identity is the verified caller identity attached to authenticated requests.
type Identity struct {
	UserID        string
	Email         string
	EmailVerified bool
}

// Identity extracts the caller identity from the claims.
func (c *AccessClaims) Identity() Identity {
	return Identity{
		UserID:        c.UserID,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
	}
}

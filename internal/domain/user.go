package domain

import "time"

// User represents an account in the system.
type User struct {
	Record
	Email         string `json:"email"`
	PasswordHash  string `json:"passwordHash,omitempty"` // Stored hashed, filter from API responses
	DisplayName   string `json:"displayName"`
	PhotoURL      string `json:"photoURL,omitempty"`
	PhotoBlurHash string `json:"photoBlurHash,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
}

// Summary returns the projection of the user safe to expose in listings.
func (u *User) Summary() UserSummary {
	return UserSummary{
		UID:           u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		PhotoURL:      u.PhotoURL,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// UserSummary is the public projection of a user record.
type UserSummary struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	PhotoURL      string    `json:"photoURL,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ColorMode controls how the client colors task cards.
type ColorMode string

const (
	ColorModeNone     ColorMode = "none"
	ColorModePriority ColorMode = "priority"
	ColorModeCategory ColorMode = "category"
)

// CardOptions are per-user display toggles for task cards.
type CardOptions struct {
	ShowDescription bool `json:"showDescription"`
	ShowPriority    bool `json:"showPriority"`
	ShowDate        bool `json:"showDate"`
	ShowCategory    bool `json:"showCategory"`
}

// Preferences are user customization settings.
// Stored separately from User to keep auth concerns apart from display settings.
type Preferences struct {
	UserID      string      `json:"userId"`
	ColorMode   ColorMode   `json:"colorMode"`
	CardOptions CardOptions `json:"cardOptions"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// DefaultPreferences returns the preferences assigned at signup:
// no card coloring, every display toggle on.
func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:    userID,
		ColorMode: ColorModeNone,
		CardOptions: CardOptions{
			ShowDescription: true,
			ShowPriority:    true,
			ShowDate:        true,
			ShowCategory:    true,
		},
		UpdatedAt: time.Now(),
	}
}

// Profile is the merged view of a user's identity record and their
// preferences, returned by the profile and verify endpoints.
type Profile struct {
	UID           string      `json:"uid"`
	Email         string      `json:"email"`
	DisplayName   string      `json:"displayName"`
	PhotoURL      string      `json:"photoURL,omitempty"`
	PhotoBlurHash string      `json:"photoBlurHash,omitempty"`
	EmailVerified bool        `json:"emailVerified"`
	Preferences   Preferences `json:"preferences"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// MergeProfile combines the identity record with the preferences
// record into the outward profile shape. A missing preferences record
// falls back to the defaults.
func MergeProfile(u *User, p *Preferences) *Profile {
	merged := &Profile{
		UID:           u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		PhotoURL:      u.PhotoURL,
		PhotoBlurHash: u.PhotoBlurHash,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
	if p != nil {
		merged.Preferences = *p
	} else {
		merged.Preferences = *DefaultPreferences(u.ID)
	}
	return merged
}

// PasswordReset is a single-use credential recovery token. The record
// ID is the opaque token emailed to the user.
type PasswordReset struct {
	Record
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the reset token is past its deadline.
func (p *PasswordReset) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

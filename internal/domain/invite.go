package domain

// InviteStatus represents the lifecycle state of an invitation.
// Only "pending" is written today; the field exists so claimed invites
// can be marked without a schema change.
type InviteStatus string

const (
	InviteStatusPending InviteStatus = "pending"
)

// Invitation records that an existing user asked us to email someone
// an invite to the product.
type Invitation struct {
	Record
	Email     string       `json:"email"`
	InviterID string       `json:"inviterId"`
	Status    InviteStatus `json:"status"`
}

// ContactMessage is a message submitted through the public contact form.
// It is stored before any delivery attempt so the submission survives
// mail relay outages.
type ContactMessage struct {
	Record
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

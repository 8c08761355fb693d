package identity

import "time"

// Type declares which channels a sender identity can serve.
type Type string

const (
	TypeEmail    Type = "email"
	TypeSMS      Type = "sms"
	TypeEmailSMS Type = "email+sms"
)

// Intersects reports whether the sender type can serve the given channel
// ("email" or "sms").
func (t Type) Intersects(channel string) bool {
	return string(t) == channel || t == TypeEmailSMS
}

// Valid reports whether t is one of the known sender types.
func (t Type) Valid() bool {
	return t == TypeEmail || t == TypeSMS || t == TypeEmailSMS
}

// Sender is a stored From identity. At most one sender whose type
// intersects a channel may be the default for that channel at any time.
type Sender struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	EmailAddress string    `json:"email_address,omitempty"`
	SMSSender    string    `json:"sms_sender,omitempty"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateRequest carries the fields accepted when creating a sender.
type CreateRequest struct {
	Type         Type   `json:"type"`
	EmailAddress string `json:"email_address,omitempty"`
	SMSSender    string `json:"sms_sender,omitempty"`
	IsDefault    *bool  `json:"is_default,omitempty"`
}

// UpdateRequest is a partial sender mutation.
type UpdateRequest struct {
	EmailAddress *string `json:"email_address,omitempty"`
	SMSSender    *string `json:"sms_sender,omitempty"`
	IsDefault    *bool   `json:"is_default,omitempty"`
}

package template

import "time"

// Channel is the delivery channel a template is written for.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Template is a stored message template. Body markup is engine-specific;
// Engine empty means "use the request's delivery-context default".
type Template struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Type            Channel           `json:"type"`
	Subject         string            `json:"subject,omitempty"`
	Body            string            `json:"body"`
	Personalisation map[string]string `json:"personalisation,omitempty"`
	Active          bool              `json:"active"`
	Engine          string            `json:"engine,omitempty"`
	Version         int               `json:"version"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// CreateRequest carries the fields accepted when creating a template.
type CreateRequest struct {
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Type            Channel           `json:"type"`
	Subject         string            `json:"subject,omitempty"`
	Body            string            `json:"body"`
	Personalisation map[string]string `json:"personalisation,omitempty"`
	Active          *bool             `json:"active,omitempty"`
	Engine          string            `json:"engine,omitempty"`
}

// UpdateRequest carries a partial template mutation. Nil fields are left
// untouched; every successful update bumps Version and UpdatedAt.
type UpdateRequest struct {
	Name            *string           `json:"name,omitempty"`
	Description     *string           `json:"description,omitempty"`
	Type            *Channel          `json:"type,omitempty"`
	Subject         *string           `json:"subject,omitempty"`
	Body            *string           `json:"body,omitempty"`
	Personalisation map[string]string `json:"personalisation,omitempty"`
	Active          *bool             `json:"active,omitempty"`
	Engine          *string           `json:"engine,omitempty"`
}

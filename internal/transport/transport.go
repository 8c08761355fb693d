// Package transport defines the uniform send contract over concrete
// delivery providers and the registry that maps adapter keys onto them.
package transport

import (
	"context"

	"github.com/bcgov/notify/internal/template/render"
)

// EmailMessage is a fully rendered email handed to a provider.
type EmailMessage struct {
	To          string
	Subject     string
	Body        string
	From        string
	ReplyTo     string
	Attachments []render.Attachment
}

// SMSMessage is a fully rendered SMS handed to a provider.
type SMSMessage struct {
	To   string
	Body string
	From string
}

// Result is the provider's acknowledgement of a dispatched message.
type Result struct {
	MessageID        string
	ProviderResponse string
}

// EmailTransport is one concrete email delivery mechanism.
type EmailTransport interface {
	Name() string
	Send(ctx context.Context, msg *EmailMessage) (*Result, error)
}

// SMSTransport is one concrete SMS delivery mechanism.
type SMSTransport interface {
	Name() string
	Send(ctx context.Context, msg *SMSMessage) (*Result, error)
}

// Registry maps adapter keys to registered transports. Lookups for unknown
// keys fall back to the channel's default transport rather than failing, so
// a misconfigured key never aborts a send.
type Registry struct {
	email        map[string]EmailTransport
	sms          map[string]SMSTransport
	defaultEmail string
	defaultSMS   string
}

func NewRegistry(defaultEmail, defaultSMS string) *Registry {
	return &Registry{
		email:        make(map[string]EmailTransport),
		sms:          make(map[string]SMSTransport),
		defaultEmail: defaultEmail,
		defaultSMS:   defaultSMS,
	}
}

func (r *Registry) RegisterEmail(t EmailTransport) {
	r.email[t.Name()] = t
}

func (r *Registry) RegisterSMS(t SMSTransport) {
	r.sms[t.Name()] = t
}

// Email returns the transport for key, or the default email transport when
// the key is unknown.
func (r *Registry) Email(key string) EmailTransport {
	if t, ok := r.email[key]; ok {
		return t
	}
	return r.email[r.defaultEmail]
}

// SMS returns the transport for key, or the default SMS transport when the
// key is unknown.
func (r *Registry) SMS(key string) SMSTransport {
	if t, ok := r.sms[key]; ok {
		return t
	}
	return r.sms[r.defaultSMS]
}

// EmailKeys lists the registered email adapter keys.
func (r *Registry) EmailKeys() []string {
	keys := make([]string, 0, len(r.email))
	for k := range r.email {
		keys = append(keys, k)
	}
	return keys
}

// SMSKeys lists the registered SMS adapter keys.
func (r *Registry) SMSKeys() []string {
	keys := make([]string, 0, len(r.sms))
	for k := range r.sms {
		keys = append(keys, k)
	}
	return keys
}

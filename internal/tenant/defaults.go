// Package tenant holds the flat tenant-defaults profile: process-wide
// fallback choices for adapters, identities, renderer and encoding that the
// orchestrators consult when a request and its notify type are silent.
package tenant

import (
	"context"
	"sync"
	"time"
)

// Defaults is the tenant defaults profile. All fields are optional.
type Defaults struct {
	EmailAdapter    string `json:"emailAdapter,omitempty"`
	SMSAdapter      string `json:"smsAdapter,omitempty"`
	EmailIdentityID string `json:"emailIdentityId,omitempty"`
	SMSIdentityID   string `json:"smsIdentityId,omitempty"`
	Renderer        string `json:"renderer,omitempty"`
	Priority        string `json:"priority,omitempty"`
	Encoding        string `json:"encoding,omitempty"`
	BodyType        string `json:"bodyType,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// Store reads and merges the defaults profile.
type Store interface {
	Get(ctx context.Context) (Defaults, error)
	Merge(ctx context.Context, partial Defaults) (Defaults, error)
}

// InMemoryStore holds the profile in process memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	defaults Defaults
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Get(ctx context.Context) (Defaults, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults, nil
}

func (s *InMemoryStore) Merge(ctx context.Context, partial Defaults) (Defaults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	merge(&s.defaults, partial)
	return s.defaults, nil
}

// Service exposes tenant defaults to the orchestrators and the admin surface.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetDefaults(ctx context.Context) (Defaults, error) {
	return s.store.Get(ctx)
}

func (s *Service) UpdateDefaults(ctx context.Context, partial Defaults) (Defaults, error) {
	partial.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.store.Merge(ctx, partial)
}

func merge(dst *Defaults, src Defaults) {
	if src.EmailAdapter != "" {
		dst.EmailAdapter = src.EmailAdapter
	}
	if src.SMSAdapter != "" {
		dst.SMSAdapter = src.SMSAdapter
	}
	if src.EmailIdentityID != "" {
		dst.EmailIdentityID = src.EmailIdentityID
	}
	if src.SMSIdentityID != "" {
		dst.SMSIdentityID = src.SMSIdentityID
	}
	if src.Renderer != "" {
		dst.Renderer = src.Renderer
	}
	if src.Priority != "" {
		dst.Priority = src.Priority
	}
	if src.Encoding != "" {
		dst.Encoding = src.Encoding
	}
	if src.BodyType != "" {
		dst.BodyType = src.BodyType
	}
	if src.UpdatedAt != "" {
		dst.UpdatedAt = src.UpdatedAt
	}
}

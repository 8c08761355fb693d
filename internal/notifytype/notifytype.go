// Package notifytype stores intent profiles: named bundles of default send
// fields a caller can reference by code instead of repeating every field.
package notifytype

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bcgov/notify/internal/apierr"
)

// NotifyType is a stored intent profile.
type NotifyType struct {
	ID         string            `json:"id"`
	Code       string            `json:"code"`
	SendAs     string            `json:"sendAs,omitempty"`
	TemplateID string            `json:"templateId,omitempty"`
	IdentityID string            `json:"identityId,omitempty"`
	Renderer   string            `json:"renderer,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	Body       string            `json:"body,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// CreateRequest carries the fields accepted when creating a notify type.
type CreateRequest struct {
	Code       string            `json:"code"`
	SendAs     string            `json:"sendAs,omitempty"`
	TemplateID string            `json:"templateId,omitempty"`
	IdentityID string            `json:"identityId,omitempty"`
	Renderer   string            `json:"renderer,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	Body       string            `json:"body,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
}

// UpdateRequest is a partial notify-type mutation.
type UpdateRequest struct {
	Code       *string           `json:"code,omitempty"`
	SendAs     *string           `json:"sendAs,omitempty"`
	TemplateID *string           `json:"templateId,omitempty"`
	IdentityID *string           `json:"identityId,omitempty"`
	Renderer   *string           `json:"renderer,omitempty"`
	Subject    *string           `json:"subject,omitempty"`
	Body       *string           `json:"body,omitempty"`
	Params     map[string]string `json:"params,omitempty"`
}

// Store is the in-memory notify-type store, indexed by id and by code.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*NotifyType
	byCode map[string]string
}

func NewStore() *Store {
	return &Store{
		byID:   make(map[string]*NotifyType),
		byCode: make(map[string]string),
	}
}

func (s *Store) getByID(id string) *NotifyType {
	nt, ok := s.byID[id]
	if !ok {
		return nil
	}
	cp := *nt
	return &cp
}

// Service handles notify-type CRUD. Codes are unique across the store.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetNotifyTypes(ctx context.Context) []*NotifyType {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	out := make([]*NotifyType, 0, len(s.store.byID))
	for _, nt := range s.store.byID {
		cp := *nt
		out = append(out, &cp)
	}
	return out
}

func (s *Service) GetNotifyType(ctx context.Context, id string) (*NotifyType, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	nt := s.store.getByID(id)
	if nt == nil {
		return nil, apierr.NotFound("Notify type not found")
	}
	return nt, nil
}

// GetByCode looks up a notify type by its code; nil when absent.
func (s *Service) GetByCode(ctx context.Context, code string) *NotifyType {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	id, ok := s.store.byCode[code]
	if !ok {
		return nil
	}
	return s.store.getByID(id)
}

func (s *Service) CreateNotifyType(ctx context.Context, req *CreateRequest) (*NotifyType, error) {
	if req.Code == "" {
		return nil, apierr.BadRequest("code is required")
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.byCode[req.Code]; exists {
		return nil, apierr.Conflict("Notify type with code %q already exists", req.Code)
	}

	now := time.Now().UTC()
	nt := &NotifyType{
		ID:         uuid.New().String(),
		Code:       req.Code,
		SendAs:     req.SendAs,
		TemplateID: req.TemplateID,
		IdentityID: req.IdentityID,
		Renderer:   req.Renderer,
		Subject:    req.Subject,
		Body:       req.Body,
		Params:     req.Params,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.store.byID[nt.ID] = nt
	s.store.byCode[nt.Code] = nt.ID
	log.Printf("Created notify type: %s (%s)", nt.ID, nt.Code)
	cp := *nt
	return &cp, nil
}

func (s *Service) UpdateNotifyType(ctx context.Context, id string, req *UpdateRequest) (*NotifyType, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	existing, ok := s.store.byID[id]
	if !ok {
		return nil, apierr.NotFound("Notify type not found")
	}

	if req.Code != nil && *req.Code != existing.Code {
		if otherID, exists := s.store.byCode[*req.Code]; exists && otherID != id {
			return nil, apierr.Conflict("Notify type with code %q already exists", *req.Code)
		}
		delete(s.store.byCode, existing.Code)
		existing.Code = *req.Code
		s.store.byCode[existing.Code] = id
	}
	if req.SendAs != nil {
		existing.SendAs = *req.SendAs
	}
	if req.TemplateID != nil {
		existing.TemplateID = *req.TemplateID
	}
	if req.IdentityID != nil {
		existing.IdentityID = *req.IdentityID
	}
	if req.Renderer != nil {
		existing.Renderer = *req.Renderer
	}
	if req.Subject != nil {
		existing.Subject = *req.Subject
	}
	if req.Body != nil {
		existing.Body = *req.Body
	}
	if req.Params != nil {
		existing.Params = req.Params
	}
	existing.UpdatedAt = time.Now().UTC()
	log.Printf("Updated notify type: %s", id)
	cp := *existing
	return &cp, nil
}

func (s *Service) DeleteNotifyType(ctx context.Context, id string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	existing, ok := s.store.byID[id]
	if !ok {
		return apierr.NotFound("Notify type not found")
	}
	delete(s.store.byCode, existing.Code)
	delete(s.store.byID, id)
	log.Printf("Deleted notify type: %s", id)
	return nil
}

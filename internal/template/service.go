package template

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/bcgov/notify/internal/apierr"
)

// Resolver fetches a template by id. nil, nil means "not found"; the
// caller owns the decision to fail. This seam lets the local store be
// swapped for a remote catalog without touching orchestration code.
type Resolver interface {
	GetByID(ctx context.Context, id string) (*Template, error)
}

// StoreResolver resolves templates from the local store.
type StoreResolver struct {
	store Store
}

func NewStoreResolver(store Store) *StoreResolver {
	return &StoreResolver{store: store}
}

func (r *StoreResolver) GetByID(ctx context.Context, id string) (*Template, error) {
	return r.store.GetByID(ctx, id)
}

// Service handles template CRUD. Every update bumps the version.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetTemplates(ctx context.Context, channel Channel) ([]*Template, error) {
	templates, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if channel == "" {
		return templates, nil
	}
	filtered := make([]*Template, 0, len(templates))
	for _, t := range templates {
		if t.Type == channel {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (s *Service) GetTemplate(ctx context.Context, id string) (*Template, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apierr.NotFound("Template not found in database")
	}
	return t, nil
}

func (s *Service) CreateTemplate(ctx context.Context, req *CreateRequest) (*Template, error) {
	if req.Name == "" || req.Body == "" {
		return nil, apierr.BadRequest("name and body are required")
	}
	if req.Type != ChannelEmail && req.Type != ChannelSMS {
		return nil, apierr.BadRequest("type must be email or sms")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	now := time.Now().UTC()
	t := &Template{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Description:     req.Description,
		Type:            req.Type,
		Subject:         req.Subject,
		Body:            req.Body,
		Personalisation: req.Personalisation,
		Active:          active,
		Engine:          req.Engine,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Set(ctx, t); err != nil {
		return nil, err
	}
	log.Printf("Created template: %s (%s)", t.ID, t.Name)
	return t, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id string, req *UpdateRequest) (*Template, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierr.NotFound("Template not found in database")
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Type != nil {
		updated.Type = *req.Type
	}
	if req.Subject != nil {
		updated.Subject = *req.Subject
	}
	if req.Body != nil {
		updated.Body = *req.Body
	}
	if req.Personalisation != nil {
		updated.Personalisation = req.Personalisation
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}
	if req.Engine != nil {
		updated.Engine = *req.Engine
	}
	updated.Version = existing.Version + 1
	updated.UpdatedAt = time.Now().UTC()

	if err := s.store.Set(ctx, &updated); err != nil {
		return nil, err
	}
	log.Printf("Updated template: %s (version %d)", id, updated.Version)
	return &updated, nil
}

func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	ok, err := s.store.Has(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.NotFound("Template not found in database")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("Deleted template: %s", id)
	return nil
}

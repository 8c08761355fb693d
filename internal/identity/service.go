package identity

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bcgov/notify/internal/apierr"
)

// Service handles sender CRUD and per-channel default resolution.
//
// The "clear previous default, then set new default" sequence is the one
// cross-record invariant in the gateway; mutations serialize under mu so two
// concurrent set-as-default requests cannot leave two defaults behind.
type Service struct {
	mu    sync.Mutex
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetSenders(ctx context.Context, typ Type) ([]*Sender, error) {
	senders, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if typ != "" {
		filtered := make([]*Sender, 0, len(senders))
		for _, sender := range senders {
			if sender.Type == typ || sender.Type == TypeEmailSMS {
				filtered = append(filtered, sender)
			}
		}
		senders = filtered
	}
	sort.Slice(senders, func(i, j int) bool { return senders[i].CreatedAt.Before(senders[j].CreatedAt) })
	return senders, nil
}

func (s *Service) GetSender(ctx context.Context, id string) (*Sender, error) {
	sender, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, apierr.NotFound("Sender not found")
	}
	return sender, nil
}

// ResolveForChannel picks the From identity for a send. An explicit id must
// exist; without one, the channel's default sender is returned, or nil when
// no default is configured. Absence is legal, callers fall back to static
// configuration.
func (s *Service) ResolveForChannel(ctx context.Context, explicitID string, channel string) (*Sender, error) {
	if explicitID != "" {
		sender, err := s.store.GetByID(ctx, explicitID)
		if err != nil {
			return nil, err
		}
		if sender == nil {
			return nil, apierr.NotFound("Sender %s not found", explicitID)
		}
		return sender, nil
	}

	senders, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, sender := range senders {
		if sender.Type.Intersects(channel) && sender.IsDefault {
			return sender, nil
		}
	}
	return nil, nil
}

func (s *Service) CreateSender(ctx context.Context, req *CreateRequest) (*Sender, error) {
	if err := validateFields(req.Type, req.EmailAddress, req.SMSSender); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	isDefault := req.IsDefault != nil && *req.IsDefault
	if isDefault {
		if err := s.clearDefaultForType(ctx, req.Type, ""); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	sender := &Sender{
		ID:           uuid.New().String(),
		Type:         req.Type,
		EmailAddress: req.EmailAddress,
		SMSSender:    req.SMSSender,
		IsDefault:    isDefault,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Set(ctx, sender); err != nil {
		return nil, err
	}
	log.Printf("Created sender: %s (%s)", sender.ID, sender.Type)
	return sender, nil
}

func (s *Service) UpdateSender(ctx context.Context, id string, req *UpdateRequest) (*Sender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierr.NotFound("Sender not found")
	}

	updated := *existing
	if req.EmailAddress != nil {
		updated.EmailAddress = *req.EmailAddress
	}
	if req.SMSSender != nil {
		updated.SMSSender = *req.SMSSender
	}
	if req.IsDefault != nil {
		updated.IsDefault = *req.IsDefault
	}
	if err := validateFields(updated.Type, updated.EmailAddress, updated.SMSSender); err != nil {
		return nil, err
	}

	if req.IsDefault != nil && *req.IsDefault {
		if err := s.clearDefaultForType(ctx, existing.Type, id); err != nil {
			return nil, err
		}
	}

	updated.UpdatedAt = time.Now().UTC()
	if err := s.store.Set(ctx, &updated); err != nil {
		return nil, err
	}
	log.Printf("Updated sender: %s", id)
	return &updated, nil
}

func (s *Service) DeleteSender(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.store.Has(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apierr.NotFound("Sender not found")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("Deleted sender: %s", id)
	return nil
}

// clearDefaultForType clears is_default on every other sender whose type
// intersects the given type. Callers must hold mu.
func (s *Service) clearDefaultForType(ctx context.Context, typ Type, excludeID string) error {
	senders, err := s.store.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, sender := range senders {
		if sender.ID == excludeID || !sender.IsDefault {
			continue
		}
		if !intersects(sender.Type, typ) {
			continue
		}
		sender.IsDefault = false
		sender.UpdatedAt = time.Now().UTC()
		if err := s.store.Set(ctx, sender); err != nil {
			return err
		}
	}
	return nil
}

// intersects reports whether two sender types share a channel.
func intersects(a, b Type) bool {
	if a == TypeEmailSMS || b == TypeEmailSMS {
		return true
	}
	return a == b
}

func validateFields(typ Type, emailAddress, smsSender string) error {
	if !typ.Valid() {
		return apierr.BadRequest("type must be email, sms or email+sms")
	}
	if (typ == TypeEmail || typ == TypeEmailSMS) && emailAddress == "" {
		return apierr.BadRequest("email_address is required when type is email or email+sms")
	}
	if (typ == TypeSMS || typ == TypeEmailSMS) && smsSender == "" {
		return apierr.BadRequest("sms_sender is required when type is sms or email+sms")
	}
	return nil
}

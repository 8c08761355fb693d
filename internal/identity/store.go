package identity

import (
	"context"
	"sync"
)

// Store is the key-value contract for sender persistence. GetByID returns
// nil, nil for unknown ids.
type Store interface {
	GetByID(ctx context.Context, id string) (*Sender, error)
	Set(ctx context.Context, s *Sender) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]*Sender, error)
	Has(ctx context.Context, id string) (bool, error)
}

// InMemoryStore is the default map-backed sender store.
type InMemoryStore struct {
	mu      sync.RWMutex
	senders map[string]*Sender
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{senders: make(map[string]*Sender)}
}

func (s *InMemoryStore) GetByID(ctx context.Context, id string) (*Sender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sender, ok := s.senders[id]
	if !ok {
		return nil, nil
	}
	cp := *sender
	return &cp, nil
}

func (s *InMemoryStore) Set(ctx context.Context, sender *Sender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sender
	s.senders[sender.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.senders, id)
	return nil
}

func (s *InMemoryStore) GetAll(ctx context.Context) ([]*Sender, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Sender, 0, len(s.senders))
	for _, sender := range s.senders {
		cp := *sender
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemoryStore) Has(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.senders[id]
	return ok, nil
}

package template

import (
	"context"
	"sync"
)

// Store is the key-value contract for template persistence. GetByID returns
// nil, nil when the id is unknown; callers decide whether that is an error.
type Store interface {
	GetByID(ctx context.Context, id string) (*Template, error)
	Set(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]*Template, error)
	Has(ctx context.Context, id string) (bool, error)
}

// InMemoryStore is the default map-backed store. Safe for concurrent use.
type InMemoryStore struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{templates: make(map[string]*Template)}
}

func (s *InMemoryStore) GetByID(ctx context.Context, id string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s *InMemoryStore) Set(ctx context.Context, t *Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.templates[t.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.templates, id)
	return nil
}

func (s *InMemoryStore) GetAll(ctx context.Context) ([]*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Template, 0, len(s.templates))
	for _, t := range s.templates {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemoryStore) Has(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.templates[id]
	return ok, nil
}

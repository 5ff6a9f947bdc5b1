package store

import (
	"context"
	"sync"

	"github.com/GGamerE/SecureKYC/internal/identity"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// InMemoryStore keeps identity records in memory for dev and tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.Principal]identity.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.Principal]identity.Record)}
}

func (s *InMemoryStore) Save(_ context.Context, record identity.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.Subject] = record
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, subject id.Principal) (identity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[subject]; ok {
		return record, nil
	}
	return identity.Record{}, ErrNotFound
}

package store

import (
	"context"
	"sync"

	"github.com/GGamerE/SecureKYC/internal/proof"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

type recordKey struct {
	subject   id.Principal
	projectID id.ProjectID
}

// InMemoryStore keeps proof records in memory for dev and tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey]proof.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[recordKey]proof.Record)}
}

func (s *InMemoryStore) Save(_ context.Context, record proof.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey{record.Subject, record.ProjectID}] = record
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, subject id.Principal, projectID id.ProjectID) (proof.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[recordKey{subject, projectID}]; ok {
		return record, nil
	}
	return proof.Record{}, ErrNotFound
}

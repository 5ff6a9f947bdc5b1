package store

import (
	"context"
	"slices"
	"sync"

	"github.com/GGamerE/SecureKYC/internal/policy"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// InMemoryStore keeps project policies in memory for dev and tests.
type InMemoryStore struct {
	mu       sync.RWMutex
	policies map[id.ProjectID]policy.ProjectPolicy
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{policies: make(map[id.ProjectID]policy.ProjectPolicy)}
}

func (s *InMemoryStore) Save(_ context.Context, p policy.ProjectPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Clone so later caller mutations don't alias the stored list.
	p.AllowedCountries = slices.Clone(p.AllowedCountries)
	s.policies[p.ProjectID] = p
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, projectID id.ProjectID) (policy.ProjectPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.policies[projectID]; ok {
		p.AllowedCountries = slices.Clone(p.AllowedCountries)
		return p, nil
	}
	return policy.ProjectPolicy{}, ErrNotFound
}

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/GGamerE/SecureKYC/internal/authority"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// InMemoryStore keeps the verifier set in memory. It intentionally favors
// clarity over performance.
type InMemoryStore struct {
	mu        sync.RWMutex
	verifiers map[id.Principal]authority.Verifier
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{verifiers: make(map[id.Principal]authority.Verifier)}
}

func (s *InMemoryStore) Upsert(_ context.Context, verifier authority.Verifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifiers[verifier.Principal] = verifier
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, principal id.Principal) (authority.Verifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.verifiers[principal]; ok {
		return v, nil
	}
	return authority.Verifier{}, ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context) ([]authority.Verifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]authority.Verifier, 0, len(s.verifiers))
	for _, v := range s.verifiers {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Principal < out[j].Principal })
	return out, nil
}

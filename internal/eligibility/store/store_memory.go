package store

import (
	"context"
	"sync"

	"github.com/GGamerE/SecureKYC/internal/eligibility"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

type resultKey struct {
	projectID id.ProjectID
	subject   id.Principal
}

// InMemoryStore keeps evaluator results in memory for dev and tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	results map[resultKey]eligibility.Result
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{results: make(map[resultKey]eligibility.Result)}
}

func (s *InMemoryStore) Save(_ context.Context, result eligibility.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[resultKey{result.ProjectID, result.Subject}] = result
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, projectID id.ProjectID, subject id.Principal) (eligibility.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if result, ok := s.results[resultKey{projectID, subject}]; ok {
		return result, nil
	}
	return eligibility.Result{}, ErrNotFound
}

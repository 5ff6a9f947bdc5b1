package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/GGamerE/SecureKYC/internal/policy"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

type PolicyStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestPolicyStoreSuite(t *testing.T) {
	suite.Run(t, new(PolicyStoreSuite))
}

func (s *PolicyStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func (s *PolicyStoreSuite) newPolicy(projectID string) policy.ProjectPolicy {
	return policy.ProjectPolicy{
		ProjectID:        id.ProjectID(projectID),
		MinAge:           18,
		AllowedCountries: []uint8{1, 2, 3},
		Active:           true,
		UpdatedAt:        time.Now().UTC(),
	}
}

func (s *PolicyStoreSuite) TestSaveAndFind() {
	s.Run("saves and finds a policy", func() {
		p := s.newPolicy("alpha")
		s.Require().NoError(s.store.Save(s.ctx, p))

		found, err := s.store.Find(s.ctx, p.ProjectID)
		s.Require().NoError(err)
		s.Equal(p.AllowedCountries, found.AllowedCountries)
		s.True(found.Active)
	})

	s.Run("unknown project returns ErrNotFound", func() {
		_, err := s.store.Find(s.ctx, id.ProjectID("missing"))
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("save replaces wholesale", func() {
		p := s.newPolicy("alpha")
		s.Require().NoError(s.store.Save(s.ctx, p))

		p.AllowedCountries = []uint8{9}
		p.Active = false
		s.Require().NoError(s.store.Save(s.ctx, p))

		found, err := s.store.Find(s.ctx, p.ProjectID)
		s.Require().NoError(err)
		s.Equal([]uint8{9}, found.AllowedCountries)
		s.False(found.Active)
	})
}

func (s *PolicyStoreSuite) TestAliasing() {
	s.Run("caller mutations after save do not leak into the store", func() {
		p := s.newPolicy("alpha")
		s.Require().NoError(s.store.Save(s.ctx, p))

		p.AllowedCountries[0] = 99

		found, err := s.store.Find(s.ctx, p.ProjectID)
		s.Require().NoError(err)
		s.Equal([]uint8{1, 2, 3}, found.AllowedCountries)
	})

	s.Run("mutating a found policy does not corrupt the store", func() {
		p := s.newPolicy("alpha")
		s.Require().NoError(s.store.Save(s.ctx, p))

		found, err := s.store.Find(s.ctx, p.ProjectID)
		s.Require().NoError(err)
		found.AllowedCountries[0] = 99

		again, err := s.store.Find(s.ctx, p.ProjectID)
		s.Require().NoError(err)
		s.Equal([]uint8{1, 2, 3}, again.AllowedCountries)
	})
}

package authority_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/GGamerE/SecureKYC/internal/audit"
	"github.com/GGamerE/SecureKYC/internal/authority"
	authoritystore "github.com/GGamerE/SecureKYC/internal/authority/store"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
	"github.com/GGamerE/SecureKYC/pkg/testutil"
)

type AuthorityServiceSuite struct {
	suite.Suite
	store   *authoritystore.InMemoryStore
	events  *audit.InMemoryStore
	service *authority.Service
}

func TestAuthorityServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthorityServiceSuite))
}

func (s *AuthorityServiceSuite) SetupTest() {
	s.store = authoritystore.NewInMemoryStore()
	s.events = audit.NewInMemoryStore()

	var err error
	s.service, err = authority.NewService(
		testutil.TestPrincipals.Admin,
		s.store,
		audit.NewStorePublisher(s.events),
		nil,
		nil,
	)
	s.Require().NoError(err)
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *AuthorityServiceSuite) TestNewService() {
	s.Run("nil administrator returns error", func() {
		_, err := authority.NewService("", s.store, nil, nil, nil)
		s.Error(err)
		s.Contains(err.Error(), "administrator")
	})

	s.Run("nil store returns error", func() {
		_, err := authority.NewService(testutil.TestPrincipals.Admin, nil, nil, nil, nil)
		s.Error(err)
		s.Contains(err.Error(), "store")
	})
}

// =============================================================================
// SetVerifier Tests
// =============================================================================

func (s *AuthorityServiceSuite) TestSetVerifier() {
	ctx := testutil.Context(testutil.TestPrincipals.Admin)
	admin := testutil.TestPrincipals.Admin
	verifier := testutil.TestPrincipals.Verifier

	s.Run("non-admin caller is rejected", func() {
		err := s.service.SetVerifier(ctx, testutil.TestPrincipals.Bob, verifier, true)
		s.True(dErrors.HasCode(err, dErrors.CodeOnlyAdmin))
	})

	s.Run("admin enables a verifier", func() {
		s.Require().NoError(s.service.SetVerifier(ctx, admin, verifier, true))

		ok, err := s.service.IsAuthorized(ctx, verifier)
		s.NoError(err)
		s.True(ok)
	})

	s.Run("enabling twice is idempotent", func() {
		s.Require().NoError(s.service.SetVerifier(ctx, admin, verifier, true))
		s.Require().NoError(s.service.SetVerifier(ctx, admin, verifier, true))

		ok, err := s.service.IsAuthorized(ctx, verifier)
		s.NoError(err)
		s.True(ok)
	})

	s.Run("admin disables a verifier", func() {
		s.Require().NoError(s.service.SetVerifier(ctx, admin, verifier, true))
		s.Require().NoError(s.service.SetVerifier(ctx, admin, verifier, false))

		ok, err := s.service.IsAuthorized(ctx, verifier)
		s.NoError(err)
		s.False(ok)
	})

	s.Run("every change attempt emits an event", func() {
		before, err := s.events.ListBySubject(ctx, verifier)
		s.Require().NoError(err)
		s.Require().NoError(s.service.SetVerifier(ctx, admin, verifier, true))
		s.Require().NoError(s.service.SetVerifier(ctx, admin, verifier, true))
		after, err := s.events.ListBySubject(ctx, verifier)
		s.Require().NoError(err)
		s.Len(after, len(before)+2)
	})
}

// =============================================================================
// IsAuthorized Tests
// =============================================================================

func (s *AuthorityServiceSuite) TestIsAuthorized() {
	ctx := testutil.Context(testutil.TestPrincipals.Admin)

	s.Run("administrator is implicitly authorized", func() {
		ok, err := s.service.IsAuthorized(ctx, testutil.TestPrincipals.Admin)
		s.NoError(err)
		s.True(ok)
	})

	s.Run("unknown principal is not authorized", func() {
		ok, err := s.service.IsAuthorized(ctx, testutil.TestPrincipals.Bob)
		s.NoError(err)
		s.False(ok)
	})
}

// =============================================================================
// Verifiers Tests
// =============================================================================

func (s *AuthorityServiceSuite) TestVerifiers() {
	ctx := testutil.Context(testutil.TestPrincipals.Admin)
	admin := testutil.TestPrincipals.Admin

	s.Require().NoError(s.service.SetVerifier(ctx, admin, testutil.TestPrincipals.Verifier, true))
	s.Require().NoError(s.service.SetVerifier(ctx, admin, testutil.TestPrincipals.Bob, false))

	verifiers, err := s.service.Verifiers(ctx)
	s.NoError(err)
	s.Len(verifiers, 2)
}

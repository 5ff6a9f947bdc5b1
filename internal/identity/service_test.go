package identity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/GGamerE/SecureKYC/internal/audit"
	"github.com/GGamerE/SecureKYC/internal/fhe"
	"github.com/GGamerE/SecureKYC/internal/fhe/local"
	"github.com/GGamerE/SecureKYC/internal/identity"
	identitystore "github.com/GGamerE/SecureKYC/internal/identity/store"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
	"github.com/GGamerE/SecureKYC/pkg/testutil"
)

// stubAuthority authorizes a fixed set of principals.
type stubAuthority struct {
	allowed map[id.Principal]bool
}

func (a *stubAuthority) IsAuthorized(_ context.Context, principal id.Principal) (bool, error) {
	return a.allowed[principal], nil
}

type IdentityServiceSuite struct {
	suite.Suite
	engine    *local.Engine
	store     *identitystore.InMemoryStore
	authority *stubAuthority
	service   *identity.Service
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	var err error
	s.engine, err = local.New("identity-test")
	s.Require().NoError(err)

	s.store = identitystore.NewInMemoryStore()
	s.authority = &stubAuthority{allowed: map[id.Principal]bool{
		testutil.TestPrincipals.Verifier: true,
	}}

	s.service, err = identity.NewService(
		s.store,
		s.authority,
		s.engine,
		s.engine.Principal(),
		audit.NewStorePublisher(audit.NewInMemoryStore()),
		nil,
		nil,
	)
	s.Require().NoError(err)
}

// submitFor seals a fresh attribute bundle for subject and returns the request.
func (s *IdentityServiceSuite) submitFor(subject id.Principal, birthYear uint64, country uint64) identity.SubmitRequest {
	passport, err := s.engine.EncryptBool(true)
	s.Require().NoError(err)
	year, err := s.engine.EncryptUint64(birthYear)
	s.Require().NoError(err)
	ctry, err := s.engine.EncryptUint64(country)
	s.Require().NoError(err)

	return identity.SubmitRequest{
		PassportCiphertext:  passport,
		BirthYearCiphertext: year,
		CountryCiphertext:   ctry,
		ValidityProof:       s.engine.ProveInput(subject, passport, year, ctry),
	}
}

// =============================================================================
// Submit Tests
// =============================================================================

func (s *IdentityServiceSuite) TestSubmit() {
	alice := testutil.TestPrincipals.Alice
	ctx := testutil.Context(alice)

	s.Run("missing ciphertext is rejected", func() {
		req := s.submitFor(alice, 1990, 3)
		req.CountryCiphertext = ""
		err := s.service.Submit(ctx, alice, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
	})

	s.Run("proof bound to another subject is rejected", func() {
		req := s.submitFor(testutil.TestPrincipals.Bob, 1990, 3)
		err := s.service.Submit(ctx, alice, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidSubmission))
	})

	s.Run("valid submission persists and grants engine and subject", func() {
		req := s.submitFor(alice, 1990, 3)
		s.Require().NoError(s.service.Submit(ctx, alice, req))

		record, err := s.service.RecordOf(ctx, alice)
		s.Require().NoError(err)
		s.False(record.Attested)

		for _, h := range []fhe.Handle{req.PassportCiphertext, req.BirthYearCiphertext, req.CountryCiphertext} {
			s.True(s.engine.HasGrant(h, s.engine.Principal()))
			s.True(s.engine.HasGrant(h, alice))
			s.False(s.engine.HasGrant(h, testutil.TestPrincipals.Bob))
		}
	})

	s.Run("resubmission overwrites and clears attestation", func() {
		s.Require().NoError(s.service.Submit(ctx, alice, s.submitFor(alice, 1990, 3)))
		s.Require().NoError(s.service.Attest(ctx, testutil.TestPrincipals.Verifier, alice))

		fresh := s.submitFor(alice, 1985, 7)
		s.Require().NoError(s.service.Submit(ctx, alice, fresh))

		status, err := s.service.StatusOf(ctx, alice)
		s.Require().NoError(err)
		s.False(status.Attested)

		record, err := s.service.RecordOf(ctx, alice)
		s.Require().NoError(err)
		s.Equal(fresh.BirthYearCiphertext, record.BirthYearCiphertext)
	})
}

// =============================================================================
// Attest Tests
// =============================================================================

func (s *IdentityServiceSuite) TestAttest() {
	alice := testutil.TestPrincipals.Alice
	verifier := testutil.TestPrincipals.Verifier
	ctx := testutil.Context(verifier)

	s.Run("unauthorized caller is rejected", func() {
		err := s.service.Attest(ctx, testutil.TestPrincipals.Bob, alice)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorizedVerifier))
	})

	s.Run("attesting a missing record fails", func() {
		err := s.service.Attest(ctx, verifier, alice)
		s.True(dErrors.HasCode(err, dErrors.CodeNoSuchRecord))
	})

	s.Run("verifier attests an existing record", func() {
		s.Require().NoError(s.service.Submit(ctx, alice, s.submitFor(alice, 1990, 3)))
		s.Require().NoError(s.service.Attest(ctx, verifier, alice))

		status, err := s.service.StatusOf(ctx, alice)
		s.Require().NoError(err)
		s.True(status.Attested)
		s.Equal(verifier, status.AttestedBy)
		s.False(status.AttestedAt.IsZero())
	})
}

// =============================================================================
// StatusOf Tests
// =============================================================================

func (s *IdentityServiceSuite) TestStatusOf() {
	ctx := testutil.Context(testutil.TestPrincipals.Alice)

	s.Run("missing record maps to no-such-record", func() {
		_, err := s.service.StatusOf(ctx, testutil.TestPrincipals.Bob)
		s.True(dErrors.HasCode(err, dErrors.CodeNoSuchRecord))
	})
}

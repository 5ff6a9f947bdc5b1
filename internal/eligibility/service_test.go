package eligibility_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/GGamerE/SecureKYC/internal/audit"
	"github.com/GGamerE/SecureKYC/internal/eligibility"
	eligibilitystore "github.com/GGamerE/SecureKYC/internal/eligibility/store"
	"github.com/GGamerE/SecureKYC/internal/fhe"
	"github.com/GGamerE/SecureKYC/internal/fhe/local"
	"github.com/GGamerE/SecureKYC/internal/identity"
	identitystore "github.com/GGamerE/SecureKYC/internal/identity/store"
	"github.com/GGamerE/SecureKYC/internal/policy"
	policystore "github.com/GGamerE/SecureKYC/internal/policy/store"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
	"github.com/GGamerE/SecureKYC/pkg/testutil"
)

type allowAll struct{}

func (allowAll) IsAuthorized(_ context.Context, _ id.Principal) (bool, error) {
	return true, nil
}

type EligibilitySuite struct {
	suite.Suite
	engine      *local.Engine
	identities  *identity.Service
	policies    *policy.Service
	resultStore *eligibilitystore.InMemoryStore
	service     *eligibility.Service
}

func TestEligibilitySuite(t *testing.T) {
	suite.Run(t, new(EligibilitySuite))
}

func (s *EligibilitySuite) SetupTest() {
	var err error
	s.engine, err = local.New("eligibility-test")
	s.Require().NoError(err)

	publisher := audit.NewStorePublisher(audit.NewInMemoryStore())

	s.identities, err = identity.NewService(
		identitystore.NewInMemoryStore(), allowAll{}, s.engine, s.engine.Principal(),
		publisher, nil, nil,
	)
	s.Require().NoError(err)

	s.policies, err = policy.NewService(
		policystore.NewInMemoryStore(), allowAll{}, publisher, nil, nil,
	)
	s.Require().NoError(err)

	s.resultStore = eligibilitystore.NewInMemoryStore()
	s.service, err = eligibility.NewService(
		s.identities, s.policies, s.engine, s.resultStore,
		publisher, nil, nil,
	)
	s.Require().NoError(err)
}

// enroll submits and attests an attribute bundle for subject.
func (s *EligibilitySuite) enroll(ctx context.Context, subject id.Principal, birthYear, country uint64) {
	passport, err := s.engine.EncryptBool(true)
	s.Require().NoError(err)
	year, err := s.engine.EncryptUint64(birthYear)
	s.Require().NoError(err)
	ctry, err := s.engine.EncryptUint64(country)
	s.Require().NoError(err)

	s.Require().NoError(s.identities.Submit(ctx, subject, identity.SubmitRequest{
		PassportCiphertext:  passport,
		BirthYearCiphertext: year,
		CountryCiphertext:   ctry,
		ValidityProof:       s.engine.ProveInput(subject, passport, year, ctry),
	}))
	s.Require().NoError(s.identities.Attest(ctx, testutil.TestPrincipals.Verifier, subject))
}

func (s *EligibilitySuite) setPolicy(ctx context.Context, projectID id.ProjectID, req policy.SetPolicyRequest) {
	s.Require().NoError(s.policies.SetPolicy(ctx, testutil.TestPrincipals.Verifier, projectID, req))
}

// evaluateAndDecrypt runs an evaluation and decrypts the verdict as the caller.
func (s *EligibilitySuite) evaluateAndDecrypt(ctx context.Context, subject id.Principal, projectID id.ProjectID) bool {
	project := testutil.TestPrincipals.Project
	handle, err := s.service.Evaluate(ctx, subject, projectID, project)
	s.Require().NoError(err)

	verdict, err := s.engine.DecryptBool(ctx, handle, project)
	s.Require().NoError(err)
	return verdict
}

// =============================================================================
// Verdict correctness
// =============================================================================

func (s *EligibilitySuite) TestVerdicts() {
	ctx := testutil.Context(testutil.TestPrincipals.Project)
	projectID := id.ProjectID("launchpad-alpha")
	nowYear := uint64(time.Now().UTC().Year())

	s.setPolicy(ctx, projectID, policy.SetPolicyRequest{
		MinAge:           21,
		AllowedCountries: []uint8{1, 2, 3},
		RequiresPassport: true,
	})

	s.Run("attested adult in an allowed country is eligible", func() {
		s.enroll(ctx, testutil.TestPrincipals.Alice, nowYear-30, 2)
		s.True(s.evaluateAndDecrypt(ctx, testutil.TestPrincipals.Alice, projectID))
	})

	s.Run("disallowed country fails the check", func() {
		s.enroll(ctx, testutil.TestPrincipals.Alice, nowYear-30, 9)
		s.False(s.evaluateAndDecrypt(ctx, testutil.TestPrincipals.Alice, projectID))
	})

	s.Run("underage subject fails the check", func() {
		s.enroll(ctx, testutil.TestPrincipals.Alice, nowYear-10, 2)
		s.False(s.evaluateAndDecrypt(ctx, testutil.TestPrincipals.Alice, projectID))
	})

	s.Run("subject may decrypt their own verdict", func() {
		alice := testutil.TestPrincipals.Alice
		s.enroll(ctx, alice, nowYear-30, 1)
		handle, err := s.service.Evaluate(ctx, alice, projectID, testutil.TestPrincipals.Project)
		s.Require().NoError(err)

		verdict, err := s.engine.DecryptBool(ctx, handle, alice)
		s.NoError(err)
		s.True(verdict)
	})

	s.Run("nobody else may decrypt the verdict", func() {
		alice := testutil.TestPrincipals.Alice
		s.enroll(ctx, alice, nowYear-30, 1)
		handle, err := s.service.Evaluate(ctx, alice, projectID, testutil.TestPrincipals.Project)
		s.Require().NoError(err)

		_, err = s.engine.DecryptBool(ctx, handle, testutil.TestPrincipals.Bob)
		s.Error(err)
	})

	s.Run("evaluation grants nothing on the raw attributes", func() {
		alice := testutil.TestPrincipals.Alice
		s.enroll(ctx, alice, nowYear-30, 1)
		_, err := s.service.Evaluate(ctx, alice, projectID, testutil.TestPrincipals.Project)
		s.Require().NoError(err)

		record, err := s.identities.RecordOf(ctx, alice)
		s.Require().NoError(err)
		_, err = s.engine.Decrypt(ctx, record.BirthYearCiphertext, testutil.TestPrincipals.Project)
		s.Error(err)
	})
}

// =============================================================================
// Preconditions
// =============================================================================

func (s *EligibilitySuite) TestPreconditions() {
	ctx := testutil.Context(testutil.TestPrincipals.Project)
	projectID := id.ProjectID("launchpad-alpha")
	nowYear := uint64(time.Now().UTC().Year())
	project := testutil.TestPrincipals.Project

	s.Run("missing record fails with no-such-record", func() {
		s.setPolicy(ctx, projectID, policy.SetPolicyRequest{MinAge: 18, AllowedCountries: []uint8{1}})
		_, err := s.service.Evaluate(ctx, testutil.TestPrincipals.Bob, projectID, project)
		s.True(dErrors.HasCode(err, dErrors.CodeNoSuchRecord))
	})

	s.Run("unattested record fails with user-not-verified", func() {
		alice := testutil.TestPrincipals.Alice
		passport, err := s.engine.EncryptBool(true)
		s.Require().NoError(err)
		year, err := s.engine.EncryptUint64(nowYear - 30)
		s.Require().NoError(err)
		ctry, err := s.engine.EncryptUint64(1)
		s.Require().NoError(err)
		s.Require().NoError(s.identities.Submit(ctx, alice, identity.SubmitRequest{
			PassportCiphertext:  passport,
			BirthYearCiphertext: year,
			CountryCiphertext:   ctry,
			ValidityProof:       s.engine.ProveInput(alice, passport, year, ctry),
		}))

		s.setPolicy(ctx, projectID, policy.SetPolicyRequest{MinAge: 18, AllowedCountries: []uint8{1}})
		_, err = s.service.Evaluate(ctx, alice, projectID, project)
		s.True(dErrors.HasCode(err, dErrors.CodeUserNotVerified))
	})

	s.Run("missing policy fails with policy-inactive", func() {
		s.enroll(ctx, testutil.TestPrincipals.Alice, nowYear-30, 1)
		_, err := s.service.Evaluate(ctx, testutil.TestPrincipals.Alice, id.ProjectID("no-policy"), project)
		s.True(dErrors.HasCode(err, dErrors.CodePolicyInactive))
	})

	s.Run("deactivated policy fails with policy-inactive", func() {
		s.enroll(ctx, testutil.TestPrincipals.Alice, nowYear-30, 1)
		s.setPolicy(ctx, projectID, policy.SetPolicyRequest{MinAge: 18, AllowedCountries: []uint8{1}})
		s.Require().NoError(s.policies.Deactivate(ctx, projectID))

		_, err := s.service.Evaluate(ctx, testutil.TestPrincipals.Alice, projectID, project)
		s.True(dErrors.HasCode(err, dErrors.CodePolicyInactive))
	})
}

// =============================================================================
// Policy replacement and single use
// =============================================================================

func (s *EligibilitySuite) TestPolicyLifecycle() {
	ctx := testutil.Context(testutil.TestPrincipals.Project)
	projectID := id.ProjectID("launchpad-alpha")
	nowYear := uint64(time.Now().UTC().Year())
	alice := testutil.TestPrincipals.Alice

	s.Run("rewritten policy governs the next evaluation in full", func() {
		s.enroll(ctx, alice, nowYear-30, 5)

		s.setPolicy(ctx, projectID, policy.SetPolicyRequest{MinAge: 18, AllowedCountries: []uint8{1}})
		s.False(s.evaluateAndDecrypt(ctx, alice, projectID))

		s.setPolicy(ctx, projectID, policy.SetPolicyRequest{MinAge: 18, AllowedCountries: []uint8{5}})
		s.True(s.evaluateAndDecrypt(ctx, alice, projectID))
	})

	s.Run("single-use policy retires after one successful check", func() {
		s.enroll(ctx, alice, nowYear-30, 1)
		s.setPolicy(ctx, projectID, policy.SetPolicyRequest{
			MinAge:           18,
			AllowedCountries: []uint8{1},
			SingleUse:        true,
		})

		s.True(s.evaluateAndDecrypt(ctx, alice, projectID))

		_, err := s.service.Evaluate(ctx, alice, projectID, testutil.TestPrincipals.Project)
		s.True(dErrors.HasCode(err, dErrors.CodePolicyInactive))
	})

	s.Run("single-use retirement happens even for a negative verdict", func() {
		s.enroll(ctx, alice, nowYear-10, 1)
		s.setPolicy(ctx, projectID, policy.SetPolicyRequest{
			MinAge:           18,
			AllowedCountries: []uint8{1},
			SingleUse:        true,
		})

		s.False(s.evaluateAndDecrypt(ctx, alice, projectID))

		_, err := s.service.Evaluate(ctx, alice, projectID, testutil.TestPrincipals.Project)
		s.True(dErrors.HasCode(err, dErrors.CodePolicyInactive))
	})
}

// =============================================================================
// Result cache
// =============================================================================

func (s *EligibilitySuite) TestResultOf() {
	ctx := testutil.Context(testutil.TestPrincipals.Project)
	projectID := id.ProjectID("launchpad-alpha")
	nowYear := uint64(time.Now().UTC().Year())
	alice := testutil.TestPrincipals.Alice

	s.Run("missing result returns not found", func() {
		_, err := s.service.ResultOf(ctx, projectID, alice)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("evaluation stores the latest verdict handle", func() {
		s.enroll(ctx, alice, nowYear-30, 1)
		s.setPolicy(ctx, projectID, policy.SetPolicyRequest{MinAge: 18, AllowedCountries: []uint8{1}})

		handle, err := s.service.Evaluate(ctx, alice, projectID, testutil.TestPrincipals.Project)
		s.Require().NoError(err)

		result, err := s.service.ResultOf(ctx, projectID, alice)
		s.Require().NoError(err)
		s.Equal(handle, result.Ciphertext)
		s.Equal(projectID, result.ProjectID)
		s.Equal(alice, result.Subject)
	})
}

// =============================================================================
// Failure atomicity
// =============================================================================

// grantSpy counts decrypt grants flowing through the substrate.
type grantSpy struct {
	fhe.Substrate
	grants int
}

func (g *grantSpy) Allow(ctx context.Context, h fhe.Handle, principal id.Principal) error {
	g.grants++
	return g.Substrate.Allow(ctx, h, principal)
}

// brokenResultStore fails every save.
type brokenResultStore struct{}

func (brokenResultStore) Save(context.Context, eligibility.Result) error {
	return errors.New("result store unavailable")
}

func (brokenResultStore) Find(context.Context, id.ProjectID, id.Principal) (eligibility.Result, error) {
	return eligibility.Result{}, errors.New("result store unavailable")
}

func (s *EligibilitySuite) TestFailedEvaluationGrantsNothing() {
	ctx := testutil.Context(testutil.TestPrincipals.Project)
	projectID := id.ProjectID("launchpad-alpha")
	nowYear := uint64(time.Now().UTC().Year())
	alice := testutil.TestPrincipals.Alice

	s.enroll(ctx, alice, nowYear-30, 1)
	s.setPolicy(ctx, projectID, policy.SetPolicyRequest{MinAge: 18, AllowedCountries: []uint8{1}})

	spy := &grantSpy{Substrate: s.engine}
	svc, err := eligibility.NewService(
		s.identities, s.policies, spy, brokenResultStore{},
		nil, nil, nil,
	)
	s.Require().NoError(err)

	_, err = svc.Evaluate(ctx, alice, projectID, testutil.TestPrincipals.Project)
	s.Require().Error(err)
	s.Zero(spy.grants, "a failed evaluation must not leave decrypt permissions behind")
}

// Package eligibility implements the homomorphic predicate engine. It reads
// one identity record and one policy, computes an encrypted boolean without
// decrypting anything, and grants decrypt rights to exactly the calling
// project and the subject.
package eligibility

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/GGamerE/SecureKYC/internal/audit"
	"github.com/GGamerE/SecureKYC/internal/eligibility/metrics"
	"github.com/GGamerE/SecureKYC/internal/fhe"
	"github.com/GGamerE/SecureKYC/internal/identity"
	"github.com/GGamerE/SecureKYC/internal/policy"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// Records reads stored identity records. Satisfied by the identity service.
type Records interface {
	RecordOf(ctx context.Context, subject id.Principal) (identity.Record, error)
}

// Policies reads and retires project policies. Satisfied by the policy service.
type Policies interface {
	PolicyOf(ctx context.Context, projectID id.ProjectID) (policy.ProjectPolicy, error)
	Deactivate(ctx context.Context, projectID id.ProjectID) error
}

// Store is the evaluator result cache port.
type Store interface {
	Save(ctx context.Context, result Result) error
	Find(ctx context.Context, projectID id.ProjectID, subject id.Principal) (Result, error)
}

// Service wires the predicate over the substrate. It has no source of truth
// of its own beyond the result cache.
type Service struct {
	records   Records
	policies  Policies
	substrate fhe.Substrate
	store     Store
	publisher audit.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

func NewService(records Records, policies Policies, substrate fhe.Substrate, store Store, publisher audit.Publisher, logger *slog.Logger, metrics *metrics.Metrics) (*Service, error) {
	if records == nil {
		return nil, fmt.Errorf("record reader is required")
	}
	if policies == nil {
		return nil, fmt.Errorf("policy reader is required")
	}
	if substrate == nil {
		return nil, fmt.Errorf("ciphertext substrate is required")
	}
	if store == nil {
		return nil, fmt.Errorf("result store is required")
	}
	return &Service{
		records:   records,
		policies:  policies,
		substrate: substrate,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    otel.Tracer("securekyc/eligibility"),
	}, nil
}

// Evaluate computes the encrypted eligibility boolean for (subject, projectID)
// and grants decrypt permission on it to caller and subject. The returned
// handle is a ciphertext; the evaluator never decrypts its own output.
//
// Failed preconditions are terminal for the call: the caller must resubmit,
// re-attest, or re-policy and call again. There are no automatic retries.
func (s *Service) Evaluate(ctx context.Context, subject id.Principal, projectID id.ProjectID, caller id.Principal) (fhe.Handle, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "eligibility.Evaluate",
		trace.WithAttributes(
			attribute.String("project_id", projectID.String()),
		))
	var evalErr error
	defer func() {
		if evalErr != nil {
			span.RecordError(evalErr)
			span.SetStatus(codes.Error, evalErr.Error())
		}
		span.End()
		s.metrics.ObserveEvaluateLatency(time.Since(start))
	}()

	record, err := s.records.RecordOf(ctx, subject)
	if err != nil {
		s.metrics.IncrementEvaluations("precondition_failed")
		evalErr = err
		return "", err
	}
	if !record.Attested {
		s.metrics.IncrementEvaluations("precondition_failed")
		evalErr = dErrors.New(dErrors.CodeUserNotVerified, "subject has not been attested")
		return "", evalErr
	}

	pol, err := s.policies.PolicyOf(ctx, projectID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			err = dErrors.New(dErrors.CodePolicyInactive, "project has no active policy")
		}
		s.metrics.IncrementEvaluations("precondition_failed")
		evalErr = err
		return "", err
	}
	if !pol.Active {
		s.metrics.IncrementEvaluations("precondition_failed")
		evalErr = dErrors.New(dErrors.CodePolicyInactive, "project policy is inactive")
		return "", evalErr
	}

	eligible, err := s.predicate(ctx, record, pol)
	if err != nil {
		s.metrics.IncrementEvaluations("error")
		evalErr = dErrors.Wrap(err, dErrors.CodeInternal, "homomorphic evaluation failed")
		return "", evalErr
	}

	result := Result{
		ProjectID:   projectID,
		Subject:     subject,
		Ciphertext:  eligible,
		EvaluatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Save(ctx, result); err != nil {
		s.metrics.IncrementEvaluations("error")
		evalErr = dErrors.Wrap(err, dErrors.CodeInternal, "persist eligibility result")
		return "", evalErr
	}

	if pol.SingleUse {
		if err := s.policies.Deactivate(ctx, projectID); err != nil {
			s.metrics.IncrementEvaluations("error")
			evalErr = dErrors.Wrap(err, dErrors.CodeInternal, "retire single-use policy")
			return "", evalErr
		}
	}

	// Grants come after every fallible store write: a failed call never
	// leaves a decrypt permission behind. Exactly the calling project and
	// the subject may ever decrypt the result; nobody gains access to the
	// raw attribute ciphertexts.
	if err := s.substrate.Allow(ctx, eligible, caller); err != nil {
		s.metrics.IncrementEvaluations("error")
		evalErr = dErrors.Wrap(err, dErrors.CodeInternal, "grant decrypt permission to caller")
		return "", evalErr
	}
	if err := s.substrate.Allow(ctx, eligible, subject); err != nil {
		s.metrics.IncrementEvaluations("error")
		evalErr = dErrors.Wrap(err, dErrors.CodeInternal, "grant decrypt permission to subject")
		return "", evalErr
	}

	s.metrics.IncrementEvaluations("evaluated")
	s.emit(ctx, audit.Event{
		Action:    audit.ActionEligibilityChecked,
		Actor:     caller,
		Subject:   subject,
		ProjectID: projectID,
		RequestID: requestcontext.RequestID(ctx),
	})

	if s.logger != nil {
		s.logger.InfoContext(ctx, "eligibility evaluated",
			"project_id", projectID,
			"caller", caller,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return eligible, nil
}

// ResultOf returns the latest cached result for a pair, if any.
func (s *Service) ResultOf(ctx context.Context, projectID id.ProjectID, subject id.Principal) (Result, error) {
	return s.store.Find(ctx, projectID, subject)
}

// predicate computes ageOk AND countryOk AND passportOk entirely over
// ciphertexts. The three checks touch disjoint attribute handles, so they run
// in parallel with shared cancellation on first failure.
func (s *Service) predicate(ctx context.Context, record identity.Record, pol policy.ProjectPolicy) (fhe.Handle, error) {
	g, ctx := errgroup.WithContext(ctx)

	var ageOk, countryOk, passportOk fhe.Handle
	g.Go(func() error {
		var err error
		ageOk, err = s.ageCheck(ctx, record, pol)
		return err
	})
	g.Go(func() error {
		var err error
		countryOk, err = s.countryCheck(ctx, record, pol)
		return err
	})
	g.Go(func() error {
		var err error
		passportOk, err = s.passportCheck(ctx, record, pol)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	combineStart := time.Now()
	eligible, err := s.substrate.And(ctx, ageOk, countryOk)
	if err != nil {
		return "", err
	}
	eligible, err = s.substrate.And(ctx, eligible, passportOk)
	if err != nil {
		return "", err
	}
	s.metrics.ObserveStepLatency("combine", time.Since(combineStart))
	return eligible, nil
}

// ageCheck computes (nowYear - birthYear) >= minAge with the two constants
// promoted into the ciphertext domain.
func (s *Service) ageCheck(ctx context.Context, record identity.Record, pol policy.ProjectPolicy) (fhe.Handle, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStepLatency("age", time.Since(start)) }()

	nowYear, err := s.substrate.Promote(ctx, uint64(requestcontext.Now(ctx).UTC().Year()))
	if err != nil {
		return "", err
	}
	age, err := s.substrate.Sub(ctx, nowYear, record.BirthYearCiphertext)
	if err != nil {
		return "", err
	}
	minAge, err := s.substrate.Promote(ctx, uint64(pol.MinAge))
	if err != nil {
		return "", err
	}
	return s.substrate.Ge(ctx, age, minAge)
}

// countryCheck folds a homomorphic OR over one equality test per allow-list
// entry, seeded with an encrypted false. The fold follows registration order
// so evaluation cost stays deterministic; OR is associative and commutative,
// so the order does not change the result.
func (s *Service) countryCheck(ctx context.Context, record identity.Record, pol policy.ProjectPolicy) (fhe.Handle, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStepLatency("country", time.Since(start)) }()

	acc, err := s.substrate.PromoteBool(ctx, false)
	if err != nil {
		return "", err
	}
	for _, country := range pol.AllowedCountries {
		candidate, err := s.substrate.Promote(ctx, uint64(country))
		if err != nil {
			return "", err
		}
		match, err := s.substrate.Eq(ctx, record.CountryCiphertext, candidate)
		if err != nil {
			return "", err
		}
		acc, err = s.substrate.Or(ctx, acc, match)
		if err != nil {
			return "", err
		}
	}
	return acc, nil
}

// passportCheck promotes the attestation flag when the policy demands a
// passport: attestation already implies a passport was checked at attest
// time. Policies without the requirement get an encrypted true.
func (s *Service) passportCheck(ctx context.Context, record identity.Record, pol policy.ProjectPolicy) (fhe.Handle, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveStepLatency("passport", time.Since(start)) }()

	if !pol.RequiresPassport {
		return s.substrate.PromoteBool(ctx, true)
	}
	return s.substrate.PromoteBool(ctx, record.Attested)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err)
	}
}

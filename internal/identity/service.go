// Package identity owns the encrypted identity record store: one attribute
// bundle per subject, submitted by the subject alone, attested by verifier
// authority members.
package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GGamerE/SecureKYC/internal/audit"
	"github.com/GGamerE/SecureKYC/internal/fhe"
	"github.com/GGamerE/SecureKYC/internal/platform/metrics"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
	keylock "github.com/GGamerE/SecureKYC/pkg/platform/sync"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// Store is the persistence port for identity records.
type Store interface {
	Save(ctx context.Context, record Record) error
	Find(ctx context.Context, subject id.Principal) (Record, error)
}

// Authority answers whether a principal may attest records.
type Authority interface {
	IsAuthorized(ctx context.Context, principal id.Principal) (bool, error)
}

// Service implements submit, attest, and statusOf over the record store.
// Read-modify-write sequences serialize per subject through a sharded key
// lock, preserving the atomicity a serialized-transaction host would give.
type Service struct {
	store     Store
	authority Authority
	substrate fhe.Substrate
	// enginePrincipal is granted decrypt permission on every submitted
	// attribute so the evaluator can compute over them later.
	enginePrincipal id.Principal
	locks           *keylock.ShardedMutex
	publisher       audit.Publisher
	logger          *slog.Logger
	metrics         *metrics.Metrics
}

func NewService(store Store, authority Authority, substrate fhe.Substrate, enginePrincipal id.Principal, publisher audit.Publisher, logger *slog.Logger, metrics *metrics.Metrics) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("identity store is required")
	}
	if authority == nil {
		return nil, fmt.Errorf("authority is required")
	}
	if substrate == nil {
		return nil, fmt.Errorf("ciphertext substrate is required")
	}
	if enginePrincipal.IsNil() {
		return nil, fmt.Errorf("engine principal is required")
	}
	return &Service{
		store:           store,
		authority:       authority,
		substrate:       substrate,
		enginePrincipal: enginePrincipal,
		locks:           keylock.NewShardedMutex(),
		publisher:       publisher,
		logger:          logger,
		metrics:         metrics,
	}, nil
}

// SubmitRequest carries one encrypted attribute bundle plus the validity
// proof binding it to the subject and engine instance.
type SubmitRequest struct {
	PassportCiphertext  fhe.Handle
	BirthYearCiphertext fhe.Handle
	CountryCiphertext   fhe.Handle
	ValidityProof       []byte
}

// Submit admits a new encrypted attribute bundle for subject. Any prior
// record is overwritten and its attestation cleared: stale attestations must
// not survive attribute changes, so callers treat resubmission as revocation
// of the prior attestation. On success the engine and the subject are granted
// decrypt permission on each of the three ciphertexts.
func (s *Service) Submit(ctx context.Context, subject id.Principal, req SubmitRequest) error {
	if req.PassportCiphertext.IsNil() || req.BirthYearCiphertext.IsNil() || req.CountryCiphertext.IsNil() {
		return dErrors.New(dErrors.CodeInvalidSubmission, "all three attribute ciphertexts are required")
	}

	handles := []fhe.Handle{req.PassportCiphertext, req.BirthYearCiphertext, req.CountryCiphertext}
	if err := s.substrate.VerifyInput(ctx, req.ValidityProof, subject, handles...); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidSubmission, "ciphertext validity proof rejected")
	}

	s.locks.Lock(subject.String())
	defer s.locks.Unlock(subject.String())

	record := Record{
		Subject:             subject,
		PassportCiphertext:  req.PassportCiphertext,
		BirthYearCiphertext: req.BirthYearCiphertext,
		CountryCiphertext:   req.CountryCiphertext,
		SubmittedAt:         requestcontext.Now(ctx),
	}
	if err := s.store.Save(ctx, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "persist identity record")
	}

	// Grants come after the record commit; VerifyInput has already pinned the
	// handles, so Allow cannot fail on a handle the proof covered.
	for _, h := range handles {
		for _, grantee := range []id.Principal{s.enginePrincipal, subject} {
			if err := s.substrate.Allow(ctx, h, grantee); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "grant decrypt permission")
			}
		}
	}

	s.metrics.IncrementRecordsSubmitted()
	s.emit(ctx, audit.Event{
		Action:    audit.ActionRecordSubmitted,
		Actor:     subject,
		Subject:   subject,
		RequestID: requestcontext.RequestID(ctx),
	})

	if s.logger != nil {
		s.logger.InfoContext(ctx, "identity record submitted",
			"subject", subject,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return nil
}

// Attest marks subject's current record as checked by caller. Only verifier
// authority members (or the administrator) may attest.
func (s *Service) Attest(ctx context.Context, caller, subject id.Principal) error {
	authorized, err := s.authority.IsAuthorized(ctx, caller)
	if err != nil {
		return err
	}
	if !authorized {
		return dErrors.New(dErrors.CodeUnauthorizedVerifier, "caller is not an authorized verifier")
	}

	s.locks.Lock(subject.String())
	defer s.locks.Unlock(subject.String())

	record, err := s.store.Find(ctx, subject)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeNoSuchRecord, "subject has no identity record")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "load identity record")
	}

	record.Attested = true
	record.AttestedAt = requestcontext.Now(ctx)
	record.AttestedBy = caller
	if err := s.store.Save(ctx, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "persist attestation")
	}

	s.metrics.IncrementRecordsAttested()
	s.emit(ctx, audit.Event{
		Action:    audit.ActionRecordAttested,
		Actor:     caller,
		Subject:   subject,
		RequestID: requestcontext.RequestID(ctx),
	})

	if s.logger != nil {
		s.logger.InfoContext(ctx, "identity record attested",
			"subject", subject,
			"verifier", caller,
		)
	}
	return nil
}

// StatusOf returns the plaintext attestation metadata for subject.
// Attestation metadata is not secret; the attributes themselves are.
func (s *Service) StatusOf(ctx context.Context, subject id.Principal) (Status, error) {
	record, err := s.store.Find(ctx, subject)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return Status{}, dErrors.New(dErrors.CodeNoSuchRecord, "subject has no identity record")
		}
		return Status{}, dErrors.Wrap(err, dErrors.CodeInternal, "load identity record")
	}
	return Status{
		Attested:   record.Attested,
		AttestedAt: record.AttestedAt,
		AttestedBy: record.AttestedBy,
	}, nil
}

// RecordOf exposes the stored record to sibling services (the evaluator).
// It never decrypts anything.
func (s *Service) RecordOf(ctx context.Context, subject id.Principal) (Record, error) {
	record, err := s.store.Find(ctx, subject)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return Record{}, dErrors.New(dErrors.CodeNoSuchRecord, "subject has no identity record")
		}
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "load identity record")
	}
	return record, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err)
	}
}

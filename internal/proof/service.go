// Package proof mints one-time eligibility proof tokens. A token is derived
// from the evaluator's encrypted result through a homomorphic select, so its
// existence never leaks the underlying boolean.
package proof

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/GGamerE/SecureKYC/internal/audit"
	"github.com/GGamerE/SecureKYC/internal/fhe"
	"github.com/GGamerE/SecureKYC/internal/platform/metrics"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// Evaluator produces a fresh encrypted eligibility boolean. Satisfied by the
// eligibility service.
type Evaluator interface {
	Evaluate(ctx context.Context, subject id.Principal, projectID id.ProjectID, caller id.Principal) (fhe.Handle, error)
}

// Store is the proof record persistence port.
type Store interface {
	Save(ctx context.Context, record Record) error
	Find(ctx context.Context, subject id.Principal, projectID id.ProjectID) (Record, error)
}

// Service is the proof ledger.
type Service struct {
	evaluator Evaluator
	substrate fhe.Substrate
	store     Store
	publisher audit.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(evaluator Evaluator, substrate fhe.Substrate, store Store, publisher audit.Publisher, logger *slog.Logger, metrics *metrics.Metrics) (*Service, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if substrate == nil {
		return nil, fmt.Errorf("ciphertext substrate is required")
	}
	if store == nil {
		return nil, fmt.Errorf("proof store is required")
	}
	return &Service{
		evaluator: evaluator,
		substrate: substrate,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// IssueProof recomputes eligibility for the caller (policy or attributes may
// have changed since any previous check; a stale cached result is never
// trusted) and mints an encrypted token: the hash-derived value where the
// caller is eligible, zero elsewhere. Only the caller may decrypt it.
//
// Issuance is idempotent: a repeat call overwrites the token and leaves the
// issued flag true.
func (s *Service) IssueProof(ctx context.Context, caller id.Principal, projectID id.ProjectID) (fhe.Handle, error) {
	eligible, err := s.evaluator.Evaluate(ctx, caller, projectID, caller)
	if err != nil {
		return "", err
	}

	now := requestcontext.Now(ctx)
	tokenValue := deriveTokenValue(caller, projectID, now.UnixNano())
	tokenCt, err := s.substrate.Promote(ctx, tokenValue)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "encrypt proof token")
	}
	zeroCt, err := s.substrate.Promote(ctx, 0)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "encrypt zero token")
	}
	token, err := s.substrate.Select(ctx, eligible, tokenCt, zeroCt)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "select proof token")
	}

	record := Record{
		Subject:   caller,
		ProjectID: projectID,
		Issued:    true,
		IssuedAt:  now,
	}
	if err := s.store.Save(ctx, record); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "persist proof record")
	}

	// The token grant is the final write. A failure before this point leaves
	// at most the committed evaluation behind, never a token permission.
	if err := s.substrate.Allow(ctx, token, caller); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "grant decrypt permission on token")
	}

	s.metrics.IncrementProofsIssued()
	s.emit(ctx, audit.Event{
		Action:    audit.ActionProofIssued,
		Actor:     caller,
		Subject:   caller,
		ProjectID: projectID,
		RequestID: requestcontext.RequestID(ctx),
	})

	if s.logger != nil {
		s.logger.InfoContext(ctx, "eligibility proof issued",
			"project_id", projectID,
			"subject", caller,
		)
	}
	return token, nil
}

// HasProof reports whether a proof token was ever issued for the pair.
// Plaintext read; the flag reveals only that issuance happened, not the
// token's meaning.
func (s *Service) HasProof(ctx context.Context, subject id.Principal, projectID id.ProjectID) (bool, error) {
	record, err := s.store.Find(ctx, subject, projectID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "load proof record")
	}
	return record.Issued, nil
}

// deriveTokenValue compresses hash(subject, project, now) into the integer
// width the substrate encrypts.
func deriveTokenValue(subject id.Principal, projectID id.ProjectID, nowNanos int64) uint64 {
	h := sha256.New()
	h.Write([]byte(subject))
	h.Write([]byte{0})
	h.Write([]byte(projectID))
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(nowNanos))
	h.Write(ts[:])
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err)
	}
}

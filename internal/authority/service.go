// Package authority owns the plaintext access-control list of principals
// allowed to attest identity records, plus the single administrator who
// manages that list. The table is an explicit value owned by the engine
// instance, never ambient global state, so engines stay instantiable and
// testable in isolation.
package authority

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GGamerE/SecureKYC/internal/audit"
	"github.com/GGamerE/SecureKYC/internal/platform/metrics"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// Store is the persistence port the service writes through. Declared here so
// the service states what it needs; implementations live under store/.
type Store interface {
	Upsert(ctx context.Context, verifier Verifier) error
	Find(ctx context.Context, principal id.Principal) (Verifier, error)
	List(ctx context.Context) ([]Verifier, error)
}

// Service enforces the administrator gate over the verifier set.
// The administrator is fixed at construction and never changes afterwards.
type Service struct {
	administrator id.Principal
	store         Store
	publisher     audit.Publisher
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

func NewService(administrator id.Principal, store Store, publisher audit.Publisher, logger *slog.Logger, metrics *metrics.Metrics) (*Service, error) {
	if administrator.IsNil() {
		return nil, fmt.Errorf("administrator principal is required")
	}
	if store == nil {
		return nil, fmt.Errorf("verifier store is required")
	}
	return &Service{
		administrator: administrator,
		store:         store,
		publisher:     publisher,
		logger:        logger,
		metrics:       metrics,
	}, nil
}

// Administrator returns the immutable admin principal.
func (s *Service) Administrator() id.Principal {
	return s.administrator
}

// SetVerifier enables or disables a verifier. Only the administrator may call
// it. Enabling an already-enabled principal is a state no-op but still emits
// an event so the change attempt stays observable.
func (s *Service) SetVerifier(ctx context.Context, caller, principal id.Principal, enabled bool) error {
	if caller != s.administrator {
		return dErrors.New(dErrors.CodeOnlyAdmin, "only the administrator may manage verifiers")
	}
	if principal.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "verifier principal is required")
	}

	verifier := Verifier{
		Principal: principal,
		Enabled:   enabled,
		UpdatedAt: requestcontext.Now(ctx),
		UpdatedBy: caller,
	}
	if err := s.store.Upsert(ctx, verifier); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "persist verifier change")
	}

	s.metrics.IncrementVerifierChanges()

	action := audit.ActionVerifierEnabled
	if !enabled {
		action = audit.ActionVerifierDisabled
	}
	s.emit(ctx, audit.Event{
		Action:    action,
		Actor:     caller,
		Subject:   principal,
		RequestID: requestcontext.RequestID(ctx),
	})

	if s.logger != nil {
		s.logger.InfoContext(ctx, "verifier set updated",
			"principal", principal,
			"enabled", enabled,
			"actor", caller,
		)
	}
	return nil
}

// IsAuthorized reports whether principal may attest records or configure
// policies. The administrator is implicitly always authorized.
func (s *Service) IsAuthorized(ctx context.Context, principal id.Principal) (bool, error) {
	if principal == s.administrator {
		return true, nil
	}
	verifier, err := s.store.Find(ctx, principal)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "look up verifier")
	}
	return verifier.Enabled, nil
}

// Verifiers lists the current authority set for read surfaces.
func (s *Service) Verifiers(ctx context.Context) ([]Verifier, error) {
	return s.store.List(ctx)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err)
	}
}

// Package policy owns the plaintext table of per-project eligibility rules.
package policy

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

// Store is the persistence port for project policies.
type Store interface {
	Save(ctx context.Context, p ProjectPolicy) error
	Find(ctx context.Context, projectID id.ProjectID) (ProjectPolicy, error)
}

// Authority answers whether a principal may configure policies.
type Authority interface {
	IsAuthorized(ctx context.Context, principal id.Principal) (bool, error)
}

// Service enforces the verifier gate over policy writes.
type Service struct {
	store     Store
	authority Authority
	publisher audit.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(store Store, authority Authority, publisher audit.Publisher, logger *slog.Logger, metrics *metrics.Metrics) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("policy store is required")
	}
	if authority == nil {
		return nil, fmt.Errorf("authority is required")
	}
	return &Service{
		store:     store,
		authority: authority,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// SetPolicyRequest carries the full rule set for one project. Writes replace
// any prior policy wholesale.
type SetPolicyRequest struct {
	MinAge           uint32
	AllowedCountries []uint8
	RequiresPassport bool
	SingleUse        bool
}

// SetPolicy replaces the policy under projectID and activates it. Only
// authorized verifiers (or the administrator) may configure policies.
func (s *Service) SetPolicy(ctx context.Context, caller id.Principal, projectID id.ProjectID, req SetPolicyRequest) error {
	authorized, err := s.authority.IsAuthorized(ctx, caller)
	if err != nil {
		return err
	}
	if !authorized {
		return dErrors.New(dErrors.CodeUnauthorizedVerifier, "caller is not an authorized verifier")
	}

	p := ProjectPolicy{
		ProjectID:        projectID,
		MinAge:           req.MinAge,
		AllowedCountries: req.AllowedCountries,
		RequiresPassport: req.RequiresPassport,
		SingleUse:        req.SingleUse,
		Active:           true,
		UpdatedAt:        requestcontext.Now(ctx),
		UpdatedBy:        caller,
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(ctx, p); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "persist project policy")
	}

	s.metrics.IncrementPoliciesConfigured()
	s.emit(ctx, audit.Event{
		Action:    audit.ActionPolicyConfigured,
		Actor:     caller,
		ProjectID: projectID,
		RequestID: requestcontext.RequestID(ctx),
	})

	if s.logger != nil {
		s.logger.InfoContext(ctx, "project policy configured",
			"project_id", projectID,
			"actor", caller,
			"countries", len(req.AllowedCountries),
			"single_use", req.SingleUse,
		)
	}
	return nil
}

// PolicyOf returns the current policy for projectID. Pure read.
func (s *Service) PolicyOf(ctx context.Context, projectID id.ProjectID) (ProjectPolicy, error) {
	p, err := s.store.Find(ctx, projectID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return ProjectPolicy{}, dErrors.New(dErrors.CodeNotFound, "project has no policy")
		}
		return ProjectPolicy{}, dErrors.Wrap(err, dErrors.CodeInternal, "load project policy")
	}
	return p, nil
}

// Deactivate flips the policy inactive without touching its rules. The
// evaluator uses it to retire single-use policies after a successful check.
func (s *Service) Deactivate(ctx context.Context, projectID id.ProjectID) error {
	p, err := s.store.Find(ctx, projectID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "project has no policy")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "load project policy")
	}
	p.Active = false
	if err := s.store.Save(ctx, p); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "persist policy deactivation")
	}

	s.emit(ctx, audit.Event{
		Action:    audit.ActionPolicyDeactivated,
		ProjectID: projectID,
		RequestID: requestcontext.RequestID(ctx),
	})
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "error", err)
	}
}

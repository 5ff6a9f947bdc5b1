package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GGamerE/SecureKYC/internal/policy"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	"github.com/GGamerE/SecureKYC/pkg/platform/httputil"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// Service defines the interface for project policy operations.
type Service interface {
	SetPolicy(ctx context.Context, caller id.Principal, projectID id.ProjectID, req policy.SetPolicyRequest) error
	PolicyOf(ctx context.Context, projectID id.ProjectID) (policy.ProjectPolicy, error)
}

// Handler wires project policy endpoints to the policy service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a policy handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts policy endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/projects/{projectID}/policy", h.HandleSetPolicy)
	r.Get("/projects/{projectID}/policy", h.HandleGetPolicy)
}

// HandleSetPolicy handles PUT /projects/{projectID}/policy requests. The
// submitted policy wholesale replaces any previous one and activates it.
func (h *Handler) HandleSetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, err := httputil.RequireCaller(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetPolicyRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.SetPolicy(ctx, caller, projectID, req.ToDomain()); err != nil {
		h.logger.ErrorContext(ctx, "policy configuration failed",
			"request_id", requestID,
			"caller", caller,
			"project_id", projectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "policy configured",
		"request_id", requestID,
		"project_id", projectID,
		"min_age", req.MinAge,
	)
	httputil.WriteJSON(w, http.StatusOK, SetPolicyResponse{ProjectID: projectID, Active: true})
}

// HandleGetPolicy handles GET /projects/{projectID}/policy requests.
func (h *Handler) HandleGetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if _, err := httputil.RequireCaller(ctx, h.logger, requestID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	projectID, err := id.ParseProjectID(chi.URLParam(r, "projectID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	pol, err := h.service.PolicyOf(ctx, projectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromPolicy(pol))
}

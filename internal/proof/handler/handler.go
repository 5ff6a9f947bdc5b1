package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GGamerE/SecureKYC/internal/fhe"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	"github.com/GGamerE/SecureKYC/pkg/platform/httputil"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// Service defines the interface for proof ledger operations.
type Service interface {
	IssueProof(ctx context.Context, caller id.Principal, projectID id.ProjectID) (fhe.Handle, error)
	HasProof(ctx context.Context, subject id.Principal, projectID id.ProjectID) (bool, error)
}

// Handler wires proof endpoints to the proof service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a proof handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts proof endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/projects/{projectID}/proof", h.HandleIssueProof)
	r.Get("/projects/{projectID}/proof/{subject}", h.HandleHasProof)
}

// HandleIssueProof handles POST /projects/{projectID}/proof. The caller
// requests a proof token for themselves; eligibility is re-evaluated on
// every issuance.
func (h *Handler) HandleIssueProof(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

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

	token, err := h.service.IssueProof(ctx, caller, projectID)
	if err != nil {
		h.logger.ErrorContext(ctx, "proof issuance failed",
			"request_id", requestID,
			"project_id", projectID,
			"subject", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "proof issued",
		"request_id", requestID,
		"project_id", projectID,
		"subject", caller,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, IssueProofResponse{
		ProjectID: projectID,
		Subject:   caller,
		Token:     token,
	})
}

// HandleHasProof handles GET /projects/{projectID}/proof/{subject}.
func (h *Handler) HandleHasProof(w http.ResponseWriter, r *http.Request) {
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
	subject, err := id.ParsePrincipal(chi.URLParam(r, "subject"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	issued, err := h.service.HasProof(ctx, subject, projectID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, HasProofResponse{
		ProjectID: projectID,
		Subject:   subject,
		Issued:    issued,
	})
}

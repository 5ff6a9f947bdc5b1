package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GGamerE/SecureKYC/internal/eligibility"
	"github.com/GGamerE/SecureKYC/internal/fhe"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	"github.com/GGamerE/SecureKYC/pkg/platform/httputil"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// Service defines the interface for eligibility evaluation.
type Service interface {
	Evaluate(ctx context.Context, subject id.Principal, projectID id.ProjectID, caller id.Principal) (fhe.Handle, error)
	ResultOf(ctx context.Context, projectID id.ProjectID, subject id.Principal) (eligibility.Result, error)
}

// Handler wires eligibility endpoints to the evaluation service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an eligibility handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts eligibility endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/projects/{projectID}/subjects/{subject}/eligibility", h.HandleEvaluate)
	r.Get("/projects/{projectID}/subjects/{subject}/eligibility", h.HandleResult)
}

// HandleEvaluate handles POST /projects/{projectID}/subjects/{subject}/eligibility.
// The caller receives decrypt permission on the encrypted verdict.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
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
	subject, err := id.ParsePrincipal(chi.URLParam(r, "subject"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	verdict, err := h.service.Evaluate(ctx, subject, projectID, caller)
	if err != nil {
		h.logger.ErrorContext(ctx, "eligibility evaluation failed",
			"request_id", requestID,
			"project_id", projectID,
			"subject", subject,
			"caller", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "eligibility evaluated",
		"request_id", requestID,
		"project_id", projectID,
		"subject", subject,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, EvaluateResponse{
		ProjectID:  projectID,
		Subject:    subject,
		Ciphertext: verdict,
	})
}

// HandleResult handles GET /projects/{projectID}/subjects/{subject}/eligibility.
// Returns the most recently stored verdict handle without re-evaluating.
func (h *Handler) HandleResult(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.service.ResultOf(ctx, projectID, subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

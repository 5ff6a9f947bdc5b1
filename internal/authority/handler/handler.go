package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GGamerE/SecureKYC/internal/authority"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	"github.com/GGamerE/SecureKYC/pkg/platform/httputil"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// Service defines the interface for verifier registry operations.
type Service interface {
	SetVerifier(ctx context.Context, caller, principal id.Principal, enabled bool) error
	Verifiers(ctx context.Context) ([]authority.Verifier, error)
}

// Handler wires verifier registry endpoints to the authority service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an authority handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts verifier registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/verifiers/{principal}", h.HandleSetVerifier)
	r.Get("/verifiers", h.HandleListVerifiers)
}

// HandleSetVerifier handles PUT /verifiers/{principal} requests. Admin only.
func (h *Handler) HandleSetVerifier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, err := httputil.RequireCaller(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	principal, err := id.ParsePrincipal(chi.URLParam(r, "principal"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetVerifierRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.SetVerifier(ctx, caller, principal, req.Enabled); err != nil {
		h.logger.ErrorContext(ctx, "verifier update failed",
			"request_id", requestID,
			"caller", caller,
			"principal", principal,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verifier updated",
		"request_id", requestID,
		"principal", principal,
		"enabled", req.Enabled,
	)
	httputil.WriteJSON(w, http.StatusOK, VerifierResponse{Principal: principal, Enabled: req.Enabled})
}

// HandleListVerifiers handles GET /verifiers requests.
func (h *Handler) HandleListVerifiers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if _, err := httputil.RequireCaller(ctx, h.logger, requestID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	verifiers, err := h.service.Verifiers(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromVerifiers(verifiers))
}

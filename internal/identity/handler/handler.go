package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GGamerE/SecureKYC/internal/identity"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	"github.com/GGamerE/SecureKYC/pkg/platform/httputil"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// Service defines the interface for identity record operations.
type Service interface {
	Submit(ctx context.Context, subject id.Principal, req identity.SubmitRequest) error
	Attest(ctx context.Context, caller, subject id.Principal) error
	StatusOf(ctx context.Context, subject id.Principal) (identity.Status, error)
}

// Handler wires identity endpoints to the identity service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an identity handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts identity endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/identity/attributes", h.HandleSubmit)
	r.Post("/identity/{subject}/attestation", h.HandleAttest)
	r.Get("/identity/{subject}/status", h.HandleStatus)
}

// HandleSubmit handles POST /identity/attributes requests. The authenticated
// caller submits their own encrypted attribute bundle.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	caller, err := httputil.RequireCaller(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Submit(ctx, caller, req.ToDomain()); err != nil {
		h.logger.ErrorContext(ctx, "attribute submission failed",
			"request_id", requestID,
			"subject", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "attributes submitted",
		"request_id", requestID,
		"subject", caller,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusAccepted, SubmitResponse{Subject: caller})
}

// HandleAttest handles POST /identity/{subject}/attestation requests.
func (h *Handler) HandleAttest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, err := httputil.RequireCaller(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	subject, err := id.ParsePrincipal(chi.URLParam(r, "subject"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Attest(ctx, caller, subject); err != nil {
		h.logger.ErrorContext(ctx, "attestation failed",
			"request_id", requestID,
			"verifier", caller,
			"subject", subject,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "record attested",
		"request_id", requestID,
		"verifier", caller,
		"subject", subject,
	)
	httputil.WriteJSON(w, http.StatusOK, AttestResponse{Subject: subject, Attested: true})
}

// HandleStatus handles GET /identity/{subject}/status requests.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if _, err := httputil.RequireCaller(ctx, h.logger, requestID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	subject, err := id.ParsePrincipal(chi.URLParam(r, "subject"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	status, err := h.service.StatusOf(ctx, subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromStatus(subject, status))
}

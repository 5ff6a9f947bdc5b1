// Package httptransport assembles the engine's public HTTP surface.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authorityhandler "github.com/GGamerE/SecureKYC/internal/authority/handler"
	eligibilityhandler "github.com/GGamerE/SecureKYC/internal/eligibility/handler"
	identityhandler "github.com/GGamerE/SecureKYC/internal/identity/handler"
	"github.com/GGamerE/SecureKYC/internal/jwtauth"
	policyhandler "github.com/GGamerE/SecureKYC/internal/policy/handler"
	proofhandler "github.com/GGamerE/SecureKYC/internal/proof/handler"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
	"github.com/GGamerE/SecureKYC/pkg/platform/httputil"
	"github.com/GGamerE/SecureKYC/pkg/platform/middleware/auth"
	"github.com/GGamerE/SecureKYC/pkg/platform/middleware/metadata"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// Deps collects everything the router mounts.
type Deps struct {
	Identity    identityhandler.Service
	Authority   authorityhandler.Service
	Policy      policyhandler.Service
	Eligibility eligibilityhandler.Service
	Proof       proofhandler.Service
	JWT         *jwtauth.Service
	TokenTTL    time.Duration
	Logger      *slog.Logger
}

// NewRouter wires all public endpoints. Every engine operation sits behind
// bearer auth; /healthz, /metrics and the token endpoint are open.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(metadata.RequestID)
	r.Use(metadata.RequestTime)

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/auth/token", handleToken(deps.JWT, deps.TokenTTL, deps.Logger))

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.JWT, deps.Logger))
		identityhandler.New(deps.Identity, deps.Logger).Register(r)
		authorityhandler.New(deps.Authority, deps.Logger).Register(r)
		policyhandler.New(deps.Policy, deps.Logger).Register(r)
		eligibilityhandler.New(deps.Eligibility, deps.Logger).Register(r)
		proofhandler.New(deps.Proof, deps.Logger).Register(r)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tokenRequest struct {
	Principal string `json:"principal"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// handleToken issues a bearer token for a principal. Stands in for an external
// identity provider; production deployments front this with one.
func handleToken(jwt *jwtauth.Service, ttl time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)

		req, ok := httputil.DecodeJSON[tokenRequest](w, r, logger)
		if !ok {
			return
		}

		principal, err := id.ParsePrincipal(req.Principal)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		token, err := jwt.GenerateAccessToken(principal.String(), ttl)
		if err != nil {
			logger.ErrorContext(ctx, "token generation failed", "request_id", requestID, "error", err)
			httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "token generation failed"))
			return
		}

		httputil.WriteJSON(w, http.StatusOK, tokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(ttl.Seconds()),
		})
	}
}

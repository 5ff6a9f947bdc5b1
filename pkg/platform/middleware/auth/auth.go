package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/GGamerE/SecureKYC/internal/jwtauth"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// TokenValidator defines the interface for validating bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwtauth.Claims, error)
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth validates the bearer token and places the caller principal into
// the request context. Every engine entry point sits behind this middleware;
// the principal it resolves is the actor for permissioned calls and the default
// subject for self-service calls.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				if logger != nil {
					logger.WarnContext(r.Context(), "token validation failed", "error", err)
				}
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			principal, err := id.ParsePrincipal(claims.Principal)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "malformed principal claim")
				return
			}

			ctx := requestcontext.WithCaller(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

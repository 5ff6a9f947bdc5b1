// Package testutil holds shared fixtures and helpers for handler and service
// tests.
package testutil

import (
	"context"
	"net/http"
	"time"

	id "github.com/GGamerE/SecureKYC/pkg/domain"
	"github.com/GGamerE/SecureKYC/pkg/requestcontext"
)

// TestPrincipals provides deterministic principal addresses for tests.
var TestPrincipals = struct {
	Admin    id.Principal
	Verifier id.Principal
	Alice    id.Principal
	Bob      id.Principal
	Project  id.Principal
}{
	Admin:    id.Principal("0xadadadadadadadadadadadadadadadadadadadad"),
	Verifier: id.Principal("0x1111111111111111111111111111111111111111"),
	Alice:    id.Principal("0xa11cea11cea11cea11cea11cea11cea11cea11ce"),
	Bob:      id.Principal("0xb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb"),
	Project:  id.Principal("0xffffffffffffffffffffffffffffffffffffffff"),
}

// Context returns a request-scoped context with a caller and a pinned clock,
// matching what the middleware chain produces.
func Context(caller id.Principal) context.Context {
	ctx := requestcontext.WithCaller(context.Background(), caller)
	ctx = requestcontext.WithRequestID(ctx, "test-request")
	return requestcontext.WithTime(ctx, time.Now().UTC())
}

// WithCaller adds an authenticated caller to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithCaller(req *http.Request, caller id.Principal) *http.Request {
	ctx := requestcontext.WithCaller(req.Context(), caller)
	return req.WithContext(ctx)
}

// WithRequestMetadata adds a request ID and pinned time to the request context.
func WithRequestMetadata(req *http.Request) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), "test-request")
	ctx = requestcontext.WithTime(ctx, time.Now().UTC())
	return req.WithContext(ctx)
}

package store

import (
	"context"

	"github.com/GGamerE/SecureKYC/internal/authority"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
)

// ErrNotFound keeps store-specific 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "verifier not found")

// Store persists the plaintext verifier set. Implementations must treat
// Upsert as last-write-wins on the principal key.
type Store interface {
	Upsert(ctx context.Context, verifier authority.Verifier) error
	Find(ctx context.Context, principal id.Principal) (authority.Verifier, error)
	List(ctx context.Context) ([]authority.Verifier, error)
}

package store

import (
	"context"

	"github.com/GGamerE/SecureKYC/internal/identity"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
)

// ErrNotFound keeps store-specific 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "identity record not found")

// Store persists identity records. Save is last-write-wins on the subject key.
type Store interface {
	Save(ctx context.Context, record identity.Record) error
	Find(ctx context.Context, subject id.Principal) (identity.Record, error)
}

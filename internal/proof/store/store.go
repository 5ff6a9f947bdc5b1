package store

import (
	"context"

	"github.com/GGamerE/SecureKYC/internal/proof"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
)

// ErrNotFound keeps store-specific 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "proof record not found")

// Store persists proof issuance records.
type Store interface {
	Save(ctx context.Context, record proof.Record) error
	Find(ctx context.Context, subject id.Principal, projectID id.ProjectID) (proof.Record, error)
}

package store

import (
	"context"

	"github.com/GGamerE/SecureKYC/internal/policy"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
)

// ErrNotFound keeps store-specific 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "project policy not found")

// Store persists project policies. Save is last-write-wins on the project key.
type Store interface {
	Save(ctx context.Context, p policy.ProjectPolicy) error
	Find(ctx context.Context, projectID id.ProjectID) (policy.ProjectPolicy, error)
}

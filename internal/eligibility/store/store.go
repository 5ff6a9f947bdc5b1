package store

import (
	"context"

	"github.com/GGamerE/SecureKYC/internal/eligibility"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
)

// ErrNotFound keeps store-specific 404s consistent across implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "eligibility result not found")

// Store is the evaluator result cache. Save is last-committed-wins on the
// (project, subject) key; eligibility reflects the latest attributes and
// policy, never a historical snapshot.
type Store interface {
	Save(ctx context.Context, result eligibility.Result) error
	Find(ctx context.Context, projectID id.ProjectID, subject id.Principal) (eligibility.Result, error)
}

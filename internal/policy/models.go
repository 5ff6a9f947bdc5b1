package policy

import (
	"time"

	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
)

// MaxAllowedCountries bounds the allow-list so the homomorphic OR fold over
// country equality tests has a predictable worst-case cost.
const MaxAllowedCountries = 32

// ProjectPolicy is the plaintext eligibility rule set for one project.
// Policies are replaced wholesale; there are no partial updates.
type ProjectPolicy struct {
	ProjectID id.ProjectID

	MinAge uint32
	// AllowedCountries keeps registration order; the evaluator folds over it
	// in exactly this order so evaluation cost stays deterministic.
	AllowedCountries []uint8
	RequiresPassport bool

	// SingleUse policies deactivate after their first completed eligibility
	// check, whatever the verdict, and must be rewritten before the next one.
	SingleUse bool

	// Active is set exactly when the policy is (re)written by an authorized
	// principal. Inactive policies reject eligibility checks.
	Active bool

	UpdatedAt time.Time
	UpdatedBy id.Principal
}

// Validate enforces the documented bounds on a policy write.
func (p ProjectPolicy) Validate() error {
	if p.ProjectID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "project ID is required")
	}
	if len(p.AllowedCountries) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "at least one allowed country is required")
	}
	if len(p.AllowedCountries) > MaxAllowedCountries {
		return dErrors.New(dErrors.CodeInvalidInput, "allowed country list exceeds maximum length")
	}
	return nil
}

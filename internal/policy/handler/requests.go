package handler

import (
	"fmt"

	"github.com/GGamerE/SecureKYC/internal/policy"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
)

// SetPolicyRequest is the HTTP request body for PUT /projects/{projectID}/policy.
// Country codes travel as plain JSON numbers; []byte would base64-encode.
type SetPolicyRequest struct {
	MinAge           uint32   `json:"min_age"`
	AllowedCountries []uint16 `json:"allowed_countries"`
	RequiresPassport bool     `json:"requires_passport"`
	SingleUse        bool     `json:"single_use"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SetPolicyRequest) Validate() error {
	if len(r.AllowedCountries) == 0 {
		return dErrors.New(dErrors.CodeValidation, "allowed_countries must not be empty")
	}
	if len(r.AllowedCountries) > policy.MaxAllowedCountries {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("allowed_countries must have at most %d entries", policy.MaxAllowedCountries))
	}
	for _, c := range r.AllowedCountries {
		if c > 255 {
			return dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("country code %d out of range", c))
		}
	}
	return nil
}

// ToDomain converts the HTTP request to the domain policy submission,
// preserving registration order of the country codes.
func (r *SetPolicyRequest) ToDomain() policy.SetPolicyRequest {
	countries := make([]uint8, 0, len(r.AllowedCountries))
	for _, c := range r.AllowedCountries {
		countries = append(countries, uint8(c))
	}
	return policy.SetPolicyRequest{
		MinAge:           r.MinAge,
		AllowedCountries: countries,
		RequiresPassport: r.RequiresPassport,
		SingleUse:        r.SingleUse,
	}
}

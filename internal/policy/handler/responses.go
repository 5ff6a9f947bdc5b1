package handler

import (
	"time"

	"github.com/GGamerE/SecureKYC/internal/policy"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// SetPolicyResponse is the HTTP response for PUT /projects/{projectID}/policy.
type SetPolicyResponse struct {
	ProjectID id.ProjectID `json:"project_id"`
	Active    bool         `json:"active"`
}

// PolicyResponse is the HTTP response for GET /projects/{projectID}/policy.
type PolicyResponse struct {
	ProjectID        id.ProjectID `json:"project_id"`
	MinAge           uint32       `json:"min_age"`
	AllowedCountries []uint16     `json:"allowed_countries"`
	RequiresPassport bool         `json:"requires_passport"`
	SingleUse        bool         `json:"single_use"`
	Active           bool         `json:"active"`
	UpdatedAt        time.Time    `json:"updated_at,omitzero"`
	UpdatedBy        id.Principal `json:"updated_by,omitempty"`
}

// FromPolicy converts a domain policy to an HTTP response.
func FromPolicy(pol policy.ProjectPolicy) PolicyResponse {
	countries := make([]uint16, 0, len(pol.AllowedCountries))
	for _, c := range pol.AllowedCountries {
		countries = append(countries, uint16(c))
	}
	return PolicyResponse{
		ProjectID:        pol.ProjectID,
		MinAge:           pol.MinAge,
		AllowedCountries: countries,
		RequiresPassport: pol.RequiresPassport,
		SingleUse:        pol.SingleUse,
		Active:           pol.Active,
		UpdatedAt:        pol.UpdatedAt,
		UpdatedBy:        pol.UpdatedBy,
	}
}

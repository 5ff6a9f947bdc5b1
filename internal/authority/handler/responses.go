package handler

import (
	"time"

	"github.com/GGamerE/SecureKYC/internal/authority"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// VerifierResponse is the HTTP representation of one verifier entry.
type VerifierResponse struct {
	Principal id.Principal `json:"principal"`
	Enabled   bool         `json:"enabled"`
	UpdatedAt time.Time    `json:"updated_at,omitzero"`
	UpdatedBy id.Principal `json:"updated_by,omitempty"`
}

// ListVerifiersResponse is the HTTP response for GET /verifiers.
type ListVerifiersResponse struct {
	Verifiers []VerifierResponse `json:"verifiers"`
}

// FromVerifiers converts domain verifiers to an HTTP response.
func FromVerifiers(verifiers []authority.Verifier) ListVerifiersResponse {
	out := ListVerifiersResponse{Verifiers: make([]VerifierResponse, 0, len(verifiers))}
	for _, v := range verifiers {
		out.Verifiers = append(out.Verifiers, VerifierResponse{
			Principal: v.Principal,
			Enabled:   v.Enabled,
			UpdatedAt: v.UpdatedAt,
			UpdatedBy: v.UpdatedBy,
		})
	}
	return out
}

package handler

import (
	"time"

	"github.com/GGamerE/SecureKYC/internal/identity"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// SubmitResponse is the HTTP response for POST /identity/attributes.
type SubmitResponse struct {
	Subject id.Principal `json:"subject"`
}

// AttestResponse is the HTTP response for POST /identity/{subject}/attestation.
type AttestResponse struct {
	Subject  id.Principal `json:"subject"`
	Attested bool         `json:"attested"`
}

// StatusResponse is the HTTP response for GET /identity/{subject}/status.
type StatusResponse struct {
	Subject    id.Principal `json:"subject"`
	Attested   bool         `json:"attested"`
	AttestedAt time.Time    `json:"attested_at,omitzero"`
	AttestedBy id.Principal `json:"attested_by,omitempty"`
}

// FromStatus converts a domain Status to an HTTP response.
func FromStatus(subject id.Principal, status identity.Status) StatusResponse {
	return StatusResponse{
		Subject:    subject,
		Attested:   status.Attested,
		AttestedAt: status.AttestedAt,
		AttestedBy: status.AttestedBy,
	}
}

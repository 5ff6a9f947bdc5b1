package handler

import (
	"strings"

	"github.com/GGamerE/SecureKYC/internal/fhe"
	"github.com/GGamerE/SecureKYC/internal/identity"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
)

// SubmitRequest is the HTTP request body for POST /identity/attributes.
// The three ciphertext handles are opaque references minted by the client
// SDK; the validity proof binds them to the submitting subject.
type SubmitRequest struct {
	PassportCiphertext  string `json:"passport_ciphertext"`
	BirthYearCiphertext string `json:"birth_year_ciphertext"`
	CountryCiphertext   string `json:"country_ciphertext"`
	ValidityProof       []byte `json:"validity_proof"`
}

// Normalize trims whitespace on the handle fields.
// Implements the Normalizable interface for httputil.DecodeAndPrepare.
func (r *SubmitRequest) Normalize() {
	r.PassportCiphertext = strings.TrimSpace(r.PassportCiphertext)
	r.BirthYearCiphertext = strings.TrimSpace(r.BirthYearCiphertext)
	r.CountryCiphertext = strings.TrimSpace(r.CountryCiphertext)
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *SubmitRequest) Validate() error {
	if r.PassportCiphertext == "" {
		return dErrors.New(dErrors.CodeInvalidSubmission, "passport_ciphertext is required")
	}
	if r.BirthYearCiphertext == "" {
		return dErrors.New(dErrors.CodeInvalidSubmission, "birth_year_ciphertext is required")
	}
	if r.CountryCiphertext == "" {
		return dErrors.New(dErrors.CodeInvalidSubmission, "country_ciphertext is required")
	}
	if len(r.ValidityProof) == 0 {
		return dErrors.New(dErrors.CodeInvalidSubmission, "validity_proof is required")
	}
	return nil
}

// ToDomain converts the HTTP request to the domain submission.
func (r *SubmitRequest) ToDomain() identity.SubmitRequest {
	return identity.SubmitRequest{
		PassportCiphertext:  fhe.Handle(r.PassportCiphertext),
		BirthYearCiphertext: fhe.Handle(r.BirthYearCiphertext),
		CountryCiphertext:   fhe.Handle(r.CountryCiphertext),
		ValidityProof:       r.ValidityProof,
	}
}

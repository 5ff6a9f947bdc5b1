package handler

import (
	"time"

	"github.com/GGamerE/SecureKYC/internal/eligibility"
	"github.com/GGamerE/SecureKYC/internal/fhe"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// EvaluateResponse is the HTTP response for a fresh evaluation.
type EvaluateResponse struct {
	ProjectID  id.ProjectID `json:"project_id"`
	Subject    id.Principal `json:"subject"`
	Ciphertext fhe.Handle   `json:"ciphertext"`
}

// ResultResponse is the HTTP response for a stored verdict lookup.
type ResultResponse struct {
	ProjectID   id.ProjectID `json:"project_id"`
	Subject     id.Principal `json:"subject"`
	Ciphertext  fhe.Handle   `json:"ciphertext"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
}

// FromResult converts a stored domain result to an HTTP response.
func FromResult(result eligibility.Result) ResultResponse {
	return ResultResponse{
		ProjectID:   result.ProjectID,
		Subject:     result.Subject,
		Ciphertext:  result.Ciphertext,
		EvaluatedAt: result.EvaluatedAt,
	}
}

package handler

import (
	"github.com/GGamerE/SecureKYC/internal/fhe"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// IssueProofResponse is the HTTP response for POST /projects/{projectID}/proof.
type IssueProofResponse struct {
	ProjectID id.ProjectID `json:"project_id"`
	Subject   id.Principal `json:"subject"`
	Token     fhe.Handle   `json:"token"`
}

// HasProofResponse is the HTTP response for GET /projects/{projectID}/proof/{subject}.
type HasProofResponse struct {
	ProjectID id.ProjectID `json:"project_id"`
	Subject   id.Principal `json:"subject"`
	Issued    bool         `json:"issued"`
}

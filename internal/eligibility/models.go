package eligibility

import (
	"time"

	"github.com/GGamerE/SecureKYC/internal/fhe"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// Result is the latest eligibility ciphertext for one (project, subject)
// pair. Recomputation always supersedes; nothing older than the latest value
// is kept.
type Result struct {
	ProjectID   id.ProjectID `json:"project_id"`
	Subject     id.Principal `json:"subject"`
	Ciphertext  fhe.Handle   `json:"ciphertext"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
}

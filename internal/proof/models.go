package proof

import (
	"time"

	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// Record tracks, per (subject, project) pair, whether a proof token was ever
// issued. Issued only ever transitions false->true; re-issuing overwrites the
// token but the flag stays true.
type Record struct {
	Subject   id.Principal
	ProjectID id.ProjectID
	Issued    bool
	IssuedAt  time.Time
}

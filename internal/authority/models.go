package authority

import (
	"time"

	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// Verifier is one entry of the plaintext authority set. Disabled entries are
// kept so that enable/disable history stays observable.
type Verifier struct {
	Principal id.Principal
	Enabled   bool
	UpdatedAt time.Time
	UpdatedBy id.Principal
}

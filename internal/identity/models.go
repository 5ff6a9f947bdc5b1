package identity

import (
	"time"

	"github.com/GGamerE/SecureKYC/internal/fhe"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// Record is one encrypted attribute bundle plus plaintext attestation
// metadata, keyed by subject. The engine never decrypts the three handles;
// the passport ciphertext in particular stays opaque for its whole lifetime.
type Record struct {
	Subject             id.Principal
	PassportCiphertext  fhe.Handle
	BirthYearCiphertext fhe.Handle
	CountryCiphertext   fhe.Handle

	// Attestation metadata is plaintext and not secret. It transitions
	// false->true only, and only through an authorized verifier; a fresh
	// submission resets it.
	Attested   bool
	AttestedAt time.Time
	AttestedBy id.Principal

	SubmittedAt time.Time
}

// Status is the read model returned by StatusOf.
type Status struct {
	Attested   bool         `json:"attested"`
	AttestedAt time.Time    `json:"attested_at,omitzero"`
	AttestedBy id.Principal `json:"attested_by,omitempty"`
}

// Package fhe defines the ciphertext substrate capability the eligibility
// engine computes against. The engine only ever holds opaque handles; all
// arithmetic, comparison, and logic happens inside the substrate, and the
// engine never decrypts its own outputs.
package fhe

import (
	"context"

	id "github.com/GGamerE/SecureKYC/pkg/domain"
	dErrors "github.com/GGamerE/SecureKYC/pkg/domain-errors"
)

// Handle is an opaque reference to an encrypted value. Operators consume and
// yield handles, never plaintext.
type Handle string

// IsNil reports whether the handle is unset.
func (h Handle) IsNil() bool { return h == "" }

func (h Handle) String() string { return string(h) }

// Substrate is the capability interface the engine calls. A production backend
// would delegate to an FHE coprocessor; the local backend seals values in
// process. Either way the core treats it as an external collaborator.
type Substrate interface {
	// VerifyInput checks the validity proof accompanying newly submitted
	// ciphertexts. The proof must bind the handles to both the submitting
	// principal and this engine instance; replay across instances or subjects
	// fails with CodeInvalidSubmission.
	VerifyInput(ctx context.Context, proof []byte, subject id.Principal, handles ...Handle) error

	// Promote trivially encrypts a plaintext constant into the ciphertext
	// domain so it can participate in homomorphic operations.
	Promote(ctx context.Context, value uint64) (Handle, error)

	// PromoteBool trivially encrypts a plaintext boolean.
	PromoteBool(ctx context.Context, value bool) (Handle, error)

	// Sub computes a - b over encrypted integers (wrapping).
	Sub(ctx context.Context, a, b Handle) (Handle, error)

	// Ge computes a >= b, yielding an encrypted boolean.
	Ge(ctx context.Context, a, b Handle) (Handle, error)

	// Eq computes a == b, yielding an encrypted boolean.
	Eq(ctx context.Context, a, b Handle) (Handle, error)

	// Or computes a || b over encrypted booleans.
	Or(ctx context.Context, a, b Handle) (Handle, error)

	// And computes a && b over encrypted booleans.
	And(ctx context.Context, a, b Handle) (Handle, error)

	// Select returns ifTrue where cond holds and ifFalse elsewhere, without
	// revealing cond.
	Select(ctx context.Context, cond, ifTrue, ifFalse Handle) (Handle, error)

	// Allow grants grantee the right to later decrypt the value behind h
	// through the substrate's own off-engine protocol. Grants are additive
	// and auditable; they are never revoked by the engine.
	Allow(ctx context.Context, h Handle, grantee id.Principal) error
}

// Decryptor is the off-engine decryption boundary. Only wallets and test
// harnesses use it; core services never do.
type Decryptor interface {
	Decrypt(ctx context.Context, h Handle, caller id.Principal) (uint64, error)
	DecryptBool(ctx context.Context, h Handle, caller id.Principal) (bool, error)
}

// Substrate-level failures, expressed as domain errors so transports can map
// them without knowing the backend.
var (
	ErrInvalidProof     = dErrors.New(dErrors.CodeInvalidSubmission, "ciphertext validity proof rejected")
	ErrUnknownHandle    = dErrors.New(dErrors.CodeNotFound, "unknown ciphertext handle")
	ErrTypeMismatch     = dErrors.New(dErrors.CodeInvalidInput, "ciphertext operand type mismatch")
	ErrPermissionDenied = dErrors.New(dErrors.CodeForbidden, "caller has no decrypt permission for handle")
)

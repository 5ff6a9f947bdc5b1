// Package local provides an in-process ciphertext substrate for development
// and tests. Values are sealed at rest with AES-GCM under a per-engine key, so
// nothing identity-related is ever held in plaintext, and decryption is gated
// by explicit per-handle permission grants like a real coprocessor gateway.
package local

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/GGamerE/SecureKYC/internal/fhe"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

type kind uint8

const (
	kindUint kind = iota
	kindBool
)

type sealed struct {
	kind kind
	blob []byte // nonce || AES-GCM ciphertext of an 8-byte big-endian value
}

// Engine is the local substrate backend. It implements fhe.Substrate for the
// core services and fhe.Decryptor for the off-engine boundary, plus the
// client-side helpers (EncryptUint64, EncryptBool, ProveInput) that a wallet
// SDK would normally provide.
type Engine struct {
	engineID  string
	principal id.Principal
	key       []byte
	aead      cipher.AEAD

	mu     sync.RWMutex
	values map[fhe.Handle]sealed
	grants map[fhe.Handle]map[id.Principal]struct{}
}

// New creates a local substrate bound to the given engine instance identifier.
// The sealing key is generated fresh; handles do not survive a restart, which
// is acceptable for the dev/test backend.
func New(engineID string) (*Engine, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate sealing key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init sealing cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init sealing aead: %w", err)
	}
	digest := sha256.Sum256([]byte("securekyc-engine:" + engineID))
	return &Engine{
		engineID:  engineID,
		principal: id.Principal(fmt.Sprintf("0x%x", digest[:20])),
		key:       key,
		aead:      aead,
		values:    make(map[fhe.Handle]sealed),
		grants:    make(map[fhe.Handle]map[id.Principal]struct{}),
	}, nil
}

// Principal returns the identity the engine itself acts under when granted
// decrypt permission on submitted attributes.
func (e *Engine) Principal() id.Principal {
	return e.principal
}

// -----------------------------------------------------------------------------
// Client-side helpers (wallet SDK surface, used by tests and the dev gateway)
// -----------------------------------------------------------------------------

// EncryptUint64 seals a fresh integer ciphertext and returns its handle.
func (e *Engine) EncryptUint64(value uint64) (fhe.Handle, error) {
	return e.store(kindUint, value)
}

// EncryptBool seals a fresh boolean ciphertext and returns its handle.
func (e *Engine) EncryptBool(value bool) (fhe.Handle, error) {
	return e.store(kindBool, boolWord(value))
}

// ProveInput produces the validity proof binding the given handles to a
// subject and this engine instance. The proof is an HMAC over the engine ID,
// the subject, and the handle list, keyed by the sealing key.
func (e *Engine) ProveInput(subject id.Principal, handles ...fhe.Handle) []byte {
	return e.inputMAC(subject, handles)
}

// -----------------------------------------------------------------------------
// fhe.Substrate
// -----------------------------------------------------------------------------

func (e *Engine) VerifyInput(_ context.Context, proof []byte, subject id.Principal, handles ...fhe.Handle) error {
	e.mu.RLock()
	for _, h := range handles {
		if _, ok := e.values[h]; !ok {
			e.mu.RUnlock()
			return fhe.ErrInvalidProof
		}
	}
	e.mu.RUnlock()

	if !hmac.Equal(proof, e.inputMAC(subject, handles)) {
		return fhe.ErrInvalidProof
	}
	return nil
}

func (e *Engine) Promote(_ context.Context, value uint64) (fhe.Handle, error) {
	return e.store(kindUint, value)
}

func (e *Engine) PromoteBool(_ context.Context, value bool) (fhe.Handle, error) {
	return e.store(kindBool, boolWord(value))
}

func (e *Engine) Sub(_ context.Context, a, b fhe.Handle) (fhe.Handle, error) {
	av, bv, err := e.openPair(a, b, kindUint)
	if err != nil {
		return "", err
	}
	return e.store(kindUint, av-bv)
}

func (e *Engine) Ge(_ context.Context, a, b fhe.Handle) (fhe.Handle, error) {
	av, bv, err := e.openPair(a, b, kindUint)
	if err != nil {
		return "", err
	}
	return e.store(kindBool, boolWord(av >= bv))
}

func (e *Engine) Eq(_ context.Context, a, b fhe.Handle) (fhe.Handle, error) {
	av, bv, err := e.openPair(a, b, kindUint)
	if err != nil {
		return "", err
	}
	return e.store(kindBool, boolWord(av == bv))
}

func (e *Engine) Or(_ context.Context, a, b fhe.Handle) (fhe.Handle, error) {
	av, bv, err := e.openPair(a, b, kindBool)
	if err != nil {
		return "", err
	}
	return e.store(kindBool, boolWord(av != 0 || bv != 0))
}

func (e *Engine) And(_ context.Context, a, b fhe.Handle) (fhe.Handle, error) {
	av, bv, err := e.openPair(a, b, kindBool)
	if err != nil {
		return "", err
	}
	return e.store(kindBool, boolWord(av != 0 && bv != 0))
}

func (e *Engine) Select(_ context.Context, cond, ifTrue, ifFalse fhe.Handle) (fhe.Handle, error) {
	cv, ck, err := e.open(cond)
	if err != nil {
		return "", err
	}
	if ck != kindBool {
		return "", fhe.ErrTypeMismatch
	}
	tv, tk, err := e.open(ifTrue)
	if err != nil {
		return "", err
	}
	fv, fk, err := e.open(ifFalse)
	if err != nil {
		return "", err
	}
	if tk != fk {
		return "", fhe.ErrTypeMismatch
	}
	if cv != 0 {
		return e.store(tk, tv)
	}
	return e.store(fk, fv)
}

func (e *Engine) Allow(_ context.Context, h fhe.Handle, grantee id.Principal) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.values[h]; !ok {
		return fhe.ErrUnknownHandle
	}
	set, ok := e.grants[h]
	if !ok {
		set = make(map[id.Principal]struct{})
		e.grants[h] = set
	}
	set[grantee] = struct{}{}
	return nil
}

// -----------------------------------------------------------------------------
// fhe.Decryptor (off-engine boundary)
// -----------------------------------------------------------------------------

func (e *Engine) Decrypt(_ context.Context, h fhe.Handle, caller id.Principal) (uint64, error) {
	if err := e.checkGrant(h, caller); err != nil {
		return 0, err
	}
	v, _, err := e.open(h)
	return v, err
}

func (e *Engine) DecryptBool(_ context.Context, h fhe.Handle, caller id.Principal) (bool, error) {
	if err := e.checkGrant(h, caller); err != nil {
		return false, err
	}
	v, k, err := e.open(h)
	if err != nil {
		return false, err
	}
	if k != kindBool {
		return false, fhe.ErrTypeMismatch
	}
	return v != 0, nil
}

// HasGrant reports whether caller may decrypt h. Exposed for audit surfaces
// and tests; it does not reveal the value.
func (e *Engine) HasGrant(h fhe.Handle, caller id.Principal) bool {
	return e.checkGrant(h, caller) == nil
}

// -----------------------------------------------------------------------------
// internals
// -----------------------------------------------------------------------------

func (e *Engine) store(k kind, value uint64) (fhe.Handle, error) {
	var plain [8]byte
	binary.BigEndian.PutUint64(plain[:], value)

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	blob := e.aead.Seal(nonce, nonce, plain[:], nil)

	h := fhe.Handle("ct_" + uuid.NewString())
	e.mu.Lock()
	e.values[h] = sealed{kind: k, blob: blob}
	e.mu.Unlock()
	return h, nil
}

func (e *Engine) open(h fhe.Handle) (uint64, kind, error) {
	e.mu.RLock()
	s, ok := e.values[h]
	e.mu.RUnlock()
	if !ok {
		return 0, 0, fhe.ErrUnknownHandle
	}
	nonceSize := e.aead.NonceSize()
	if len(s.blob) < nonceSize {
		return 0, 0, fmt.Errorf("sealed blob too short for handle %s", h)
	}
	plain, err := e.aead.Open(nil, s.blob[:nonceSize], s.blob[nonceSize:], nil)
	if err != nil {
		return 0, 0, fmt.Errorf("unseal handle %s: %w", h, err)
	}
	return binary.BigEndian.Uint64(plain), s.kind, nil
}

func (e *Engine) openPair(a, b fhe.Handle, want kind) (uint64, uint64, error) {
	av, ak, err := e.open(a)
	if err != nil {
		return 0, 0, err
	}
	bv, bk, err := e.open(b)
	if err != nil {
		return 0, 0, err
	}
	if ak != want || bk != want {
		return 0, 0, fhe.ErrTypeMismatch
	}
	return av, bv, nil
}

func (e *Engine) checkGrant(h fhe.Handle, caller id.Principal) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, ok := e.values[h]; !ok {
		return fhe.ErrUnknownHandle
	}
	if set, ok := e.grants[h]; ok {
		if _, ok := set[caller]; ok {
			return nil
		}
	}
	return fhe.ErrPermissionDenied
}

func (e *Engine) inputMAC(subject id.Principal, handles []fhe.Handle) []byte {
	mac := hmac.New(sha256.New, e.key)
	mac.Write([]byte(e.engineID))
	mac.Write([]byte{0})
	mac.Write([]byte(subject))
	for _, h := range handles {
		mac.Write([]byte{0})
		mac.Write([]byte(h))
	}
	return mac.Sum(nil)
}

func boolWord(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

// Interface conformance checks.
var (
	_ fhe.Substrate = (*Engine)(nil)
	_ fhe.Decryptor = (*Engine)(nil)
)

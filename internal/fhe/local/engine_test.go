package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/GGamerE/SecureKYC/internal/fhe"
	"github.com/GGamerE/SecureKYC/pkg/testutil"
)

type EngineSuite struct {
	suite.Suite
	ctx    context.Context
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	var err error
	s.engine, err = New("engine-test")
	s.Require().NoError(err)
}

// decryptAs grants Alice on the handle and decrypts it as an integer.
func (s *EngineSuite) decryptAs(h fhe.Handle) uint64 {
	s.Require().NoError(s.engine.Allow(s.ctx, h, testutil.TestPrincipals.Alice))
	v, err := s.engine.Decrypt(s.ctx, h, testutil.TestPrincipals.Alice)
	s.Require().NoError(err)
	return v
}

func (s *EngineSuite) decryptBoolAs(h fhe.Handle) bool {
	s.Require().NoError(s.engine.Allow(s.ctx, h, testutil.TestPrincipals.Alice))
	v, err := s.engine.DecryptBool(s.ctx, h, testutil.TestPrincipals.Alice)
	s.Require().NoError(err)
	return v
}

// =============================================================================
// Arithmetic and comparison ops
// =============================================================================

func (s *EngineSuite) TestArithmetic() {
	s.Run("sub computes difference", func() {
		a, err := s.engine.Promote(s.ctx, 2026)
		s.Require().NoError(err)
		b, err := s.engine.Promote(s.ctx, 1990)
		s.Require().NoError(err)

		diff, err := s.engine.Sub(s.ctx, a, b)
		s.Require().NoError(err)
		s.Equal(uint64(36), s.decryptAs(diff))
	})

	s.Run("ge compares", func() {
		a, err := s.engine.Promote(s.ctx, 21)
		s.Require().NoError(err)
		b, err := s.engine.Promote(s.ctx, 18)
		s.Require().NoError(err)

		ge, err := s.engine.Ge(s.ctx, a, b)
		s.Require().NoError(err)
		s.True(s.decryptBoolAs(ge))

		lt, err := s.engine.Ge(s.ctx, b, a)
		s.Require().NoError(err)
		s.False(s.decryptBoolAs(lt))
	})

	s.Run("eq detects equality", func() {
		a, err := s.engine.Promote(s.ctx, 7)
		s.Require().NoError(err)
		b, err := s.engine.Promote(s.ctx, 7)
		s.Require().NoError(err)
		c, err := s.engine.Promote(s.ctx, 8)
		s.Require().NoError(err)

		eq, err := s.engine.Eq(s.ctx, a, b)
		s.Require().NoError(err)
		s.True(s.decryptBoolAs(eq))

		ne, err := s.engine.Eq(s.ctx, a, c)
		s.Require().NoError(err)
		s.False(s.decryptBoolAs(ne))
	})
}

func (s *EngineSuite) TestBooleanOps() {
	enc := func(v bool) fhe.Handle {
		h, err := s.engine.PromoteBool(s.ctx, v)
		s.Require().NoError(err)
		return h
	}

	s.Run("or", func() {
		h, err := s.engine.Or(s.ctx, enc(false), enc(true))
		s.Require().NoError(err)
		s.True(s.decryptBoolAs(h))

		h, err = s.engine.Or(s.ctx, enc(false), enc(false))
		s.Require().NoError(err)
		s.False(s.decryptBoolAs(h))
	})

	s.Run("and", func() {
		h, err := s.engine.And(s.ctx, enc(true), enc(true))
		s.Require().NoError(err)
		s.True(s.decryptBoolAs(h))

		h, err = s.engine.And(s.ctx, enc(true), enc(false))
		s.Require().NoError(err)
		s.False(s.decryptBoolAs(h))
	})

	s.Run("select picks branch by condition", func() {
		yes, err := s.engine.Promote(s.ctx, 42)
		s.Require().NoError(err)
		no, err := s.engine.Promote(s.ctx, 0)
		s.Require().NoError(err)

		picked, err := s.engine.Select(s.ctx, enc(true), yes, no)
		s.Require().NoError(err)
		s.Equal(uint64(42), s.decryptAs(picked))

		picked, err = s.engine.Select(s.ctx, enc(false), yes, no)
		s.Require().NoError(err)
		s.Equal(uint64(0), s.decryptAs(picked))
	})

	s.Run("boolean op on integer handle fails", func() {
		n, err := s.engine.Promote(s.ctx, 1)
		s.Require().NoError(err)
		_, err = s.engine.And(s.ctx, n, enc(true))
		s.ErrorIs(err, fhe.ErrTypeMismatch)
	})
}

// =============================================================================
// Input proofs
// =============================================================================

func (s *EngineSuite) TestInputProofs() {
	alice := testutil.TestPrincipals.Alice
	bob := testutil.TestPrincipals.Bob

	h1, err := s.engine.EncryptUint64(1990)
	s.Require().NoError(err)
	h2, err := s.engine.EncryptUint64(3)
	s.Require().NoError(err)

	s.Run("valid proof verifies", func() {
		proof := s.engine.ProveInput(alice, h1, h2)
		s.NoError(s.engine.VerifyInput(s.ctx, proof, alice, h1, h2))
	})

	s.Run("proof bound to another subject is rejected", func() {
		proof := s.engine.ProveInput(alice, h1, h2)
		s.ErrorIs(s.engine.VerifyInput(s.ctx, proof, bob, h1, h2), fhe.ErrInvalidProof)
	})

	s.Run("proof over different handles is rejected", func() {
		proof := s.engine.ProveInput(alice, h1)
		s.ErrorIs(s.engine.VerifyInput(s.ctx, proof, alice, h1, h2), fhe.ErrInvalidProof)
	})

	s.Run("proof over unknown handle is rejected", func() {
		proof := s.engine.ProveInput(alice, "ct_unknown")
		s.ErrorIs(s.engine.VerifyInput(s.ctx, proof, alice, "ct_unknown"), fhe.ErrInvalidProof)
	})
}

// =============================================================================
// Decrypt permission grants
// =============================================================================

func (s *EngineSuite) TestGrants() {
	alice := testutil.TestPrincipals.Alice
	bob := testutil.TestPrincipals.Bob

	h, err := s.engine.EncryptUint64(1984)
	s.Require().NoError(err)

	s.Run("decrypt without grant is denied", func() {
		_, err := s.engine.Decrypt(s.ctx, h, alice)
		s.ErrorIs(err, fhe.ErrPermissionDenied)
	})

	s.Run("decrypt with grant succeeds", func() {
		s.Require().NoError(s.engine.Allow(s.ctx, h, alice))
		v, err := s.engine.Decrypt(s.ctx, h, alice)
		s.NoError(err)
		s.Equal(uint64(1984), v)
	})

	s.Run("grant does not extend to other principals", func() {
		_, err := s.engine.Decrypt(s.ctx, h, bob)
		s.ErrorIs(err, fhe.ErrPermissionDenied)
		s.False(s.engine.HasGrant(h, bob))
		s.True(s.engine.HasGrant(h, alice))
	})

	s.Run("grant on unknown handle fails", func() {
		s.ErrorIs(s.engine.Allow(s.ctx, "ct_missing", alice), fhe.ErrUnknownHandle)
	})

	s.Run("derived handles carry no grants from operands", func() {
		other, err := s.engine.EncryptUint64(1)
		s.Require().NoError(err)
		sum, err := s.engine.Sub(s.ctx, h, other)
		s.Require().NoError(err)
		_, err = s.engine.Decrypt(s.ctx, sum, alice)
		s.ErrorIs(err, fhe.ErrPermissionDenied)
	})
}

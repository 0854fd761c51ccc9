package arith_test

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr-shifu/timelock-lib/core/math/arith"
	"github.com/mr-shifu/timelock-lib/core/math/sample"
	"github.com/mr-shifu/timelock-lib/lib/test"
)

func TestModulusExpMatchesSlowPath(t *testing.T) {
	rng := test.Rng("modulus-exp")
	p, err := sample.Prime(rng, 128)
	require.NoError(t, err)
	q, err := sample.Prime(rng, 128)
	require.NoError(t, err)

	fast := arith.ModulusFromFactors(p, q)
	slow := arith.ModulusFromN(fast.Modulus)

	x := new(saferith.Nat).SetUint64(0xC0FFEE)
	e := new(saferith.Nat).SetUint64(65537)
	assert.True(t, fast.Exp(x, e).Eq(slow.Exp(x, e)) == 1)
}

func TestModulusPhi(t *testing.T) {
	p := new(saferith.Nat).SetUint64(5)
	q := new(saferith.Nat).SetUint64(7)
	m := arith.ModulusFromFactors(p, q)

	phi := m.Phi()
	require.NotNil(t, phi)
	// φ(35) = 4 ⋅ 6
	assert.True(t, phi.Eq(new(saferith.Nat).SetUint64(24)) == 1)
}

func TestModulusBurn(t *testing.T) {
	p := new(saferith.Nat).SetUint64(11)
	q := new(saferith.Nat).SetUint64(13)
	m := arith.ModulusFromFactors(p, q)

	x := new(saferith.Nat).SetUint64(9)
	e := new(saferith.Nat).SetUint64(21)
	before := m.Exp(x, e)

	m.Burn()
	assert.Nil(t, m.Phi())

	// exponentiation still works on the public modulus
	after := m.Exp(x, e)
	assert.True(t, before.Eq(after) == 1)
}

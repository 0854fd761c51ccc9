package sample_test

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr-shifu/timelock-lib/core/math/arith"
	"github.com/mr-shifu/timelock-lib/core/math/sample"
	"github.com/mr-shifu/timelock-lib/lib/test"
)

func TestFieldElement(t *testing.T) {
	field := arith.NewField()

	x, err := sample.FieldElement(test.Rng("field-element"), field)
	require.NoError(t, err)
	assert.True(t, field.IsValid(x))

	// same seed, same element
	y, err := sample.FieldElement(test.Rng("field-element"), field)
	require.NoError(t, err)
	assert.True(t, x.Eq(y) == 1)

	// different seed, different element
	z, err := sample.FieldElement(test.Rng("other-seed"), field)
	require.NoError(t, err)
	assert.True(t, x.Eq(z) == 0)
}

func TestModN(t *testing.T) {
	n := saferith.ModulusFromBytes([]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01})

	two := new(saferith.Nat).SetUint64(2)
	for i := 0; i < 16; i++ {
		x, err := sample.ModN(test.Rng(string(rune('a'+i))), n)
		require.NoError(t, err)
		_, _, lt := x.CmpMod(n)
		assert.True(t, lt == 1)
		gt, eq, _ := x.Cmp(two)
		assert.True(t, gt == 1 || eq == 1)
	}
}

func TestPrime(t *testing.T) {
	p, err := sample.Prime(test.Rng("prime"), 128)
	require.NoError(t, err)
	assert.Equal(t, 128, p.TrueLen())
}

package polynomial_test

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr-shifu/timelock-lib/core/math/arith"
	"github.com/mr-shifu/timelock-lib/core/math/polynomial"
)

func TestLagrange(t *testing.T) {
	field := arith.NewField()

	N := 10
	allIndices := make([]uint8, N)
	for i := range allIndices {
		allIndices[i] = uint8(i + 1)
	}
	coefsEven, err := polynomial.Lagrange(field, allIndices)
	require.NoError(t, err)
	coefsOdd, err := polynomial.Lagrange(field, allIndices[:N-1])
	require.NoError(t, err)

	// interpolating the constant polynomial 1 must give 1
	sumEven := new(saferith.Nat).SetUint64(0)
	sumOdd := new(saferith.Nat).SetUint64(0)
	one := new(saferith.Nat).SetUint64(1)
	for _, c := range coefsEven {
		sumEven = field.Add(sumEven, c)
	}
	for _, c := range coefsOdd {
		sumOdd = field.Add(sumOdd, c)
	}
	assert.True(t, sumEven.Eq(one) == 1)
	assert.True(t, sumOdd.Eq(one) == 1)
}

func TestLagrangeRejectsBadIndices(t *testing.T) {
	field := arith.NewField()

	_, err := polynomial.Lagrange(field, []uint8{1, 2, 2})
	assert.Error(t, err)

	_, err = polynomial.Lagrange(field, []uint8{0, 1})
	assert.Error(t, err)
}

package zero_test

import (
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"

	"github.com/mr-shifu/timelock-lib/lib/zero"
)

func TestBytes(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5}
	zero.Bytes(b)
	assert.Equal(t, make([]byte, 5), b)

	zero.Bytes(nil)
}

func TestSlices(t *testing.T) {
	a := []byte{0xFF}
	b := []byte{0xAA, 0xBB}
	zero.Slices(a, b, nil)
	assert.Equal(t, []byte{0}, a)
	assert.Equal(t, []byte{0, 0}, b)
}

func TestNat(t *testing.T) {
	n := new(saferith.Nat).SetUint64(123456)
	zero.Nat(n)
	assert.True(t, n.EqZero() == 1)

	zero.Nat(nil)
	zero.Nats(new(saferith.Nat).SetUint64(7), nil)
}

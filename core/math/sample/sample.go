package sample

import (
	"crypto/rand"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"

	"github.com/mr-shifu/timelock-lib/core/math/arith"
	"github.com/mr-shifu/timelock-lib/lib/params"
)

// maxRejections bounds the rejection-sampling loops; with a correct reader
// the expected number of rounds is below 2.
const maxRejections = 256

// FieldElement samples a uniform element of the share field from the given
// reader. The reader is an explicit dependency so callers can substitute a
// deterministic stream in tests.
func FieldElement(rng io.Reader, f *arith.Field) (*saferith.Nat, error) {
	buf := make([]byte, params.FieldBytes)
	for i := 0; i < maxRejections; i++ {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, errors.WithMessage(err, "sample: reading field element")
		}
		// top byte carries a single bit of the 521-bit prime
		buf[0] &= 0x01
		x := new(saferith.Nat).SetBytes(buf)
		if f.IsValid(x) {
			return x, nil
		}
	}
	return nil, errors.New("sample: rejection sampling failed to terminate")
}

// ModN samples a uniform value in [2, n), suitable as a puzzle blinding
// seed base.
func ModN(rng io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	width := len(n.Bytes())
	buf := make([]byte, width)
	two := new(saferith.Nat).SetUint64(2)
	for i := 0; i < maxRejections; i++ {
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, errors.WithMessage(err, "sample: reading seed")
		}
		x := new(saferith.Nat).SetBytes(buf)
		if _, _, lt := x.CmpMod(n); lt != 1 {
			continue
		}
		if gt, _, _ := x.Cmp(two); gt != 1 && x.Eq(two) != 1 {
			continue
		}
		return x, nil
	}
	return nil, errors.New("sample: rejection sampling failed to terminate")
}

// Prime samples an odd prime of the given bit length.
func Prime(rng io.Reader, bits int) (*saferith.Nat, error) {
	p, err := rand.Prime(rng, bits)
	if err != nil {
		return nil, errors.WithMessage(err, "sample: generating prime")
	}
	n := new(saferith.Nat).SetBig(p, p.BitLen())
	p.SetInt64(0)
	return n, nil
}

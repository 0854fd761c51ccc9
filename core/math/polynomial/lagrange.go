package polynomial

import (
	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"

	"github.com/mr-shifu/timelock-lib/core/math/arith"
)

// Lagrange returns the interpolation coefficients ℓⱼ(0) for the given share
// indices, so that f(0) = Σⱼ ℓⱼ(0)⋅f(xⱼ):
//
//	ℓⱼ(0) = Π_{k≠j} xₖ ⋅ (xₖ − xⱼ)⁻¹ (mod p)
//
// Indices must be distinct and nonzero.
func Lagrange(field *arith.Field, indices []uint8) (map[uint8]*saferith.Nat, error) {
	seen := make(map[uint8]struct{}, len(indices))
	xs := make(map[uint8]*saferith.Nat, len(indices))
	for _, idx := range indices {
		if idx == 0 {
			return nil, errors.New("polynomial: index 0 is reserved for the secret")
		}
		if _, ok := seen[idx]; ok {
			return nil, errors.Errorf("polynomial: duplicate index %d", idx)
		}
		seen[idx] = struct{}{}
		xs[idx] = new(saferith.Nat).SetUint64(uint64(idx))
	}

	coefficients := make(map[uint8]*saferith.Nat, len(indices))
	for _, j := range indices {
		num := new(saferith.Nat).SetUint64(1)
		den := new(saferith.Nat).SetUint64(1)
		for _, k := range indices {
			if k == j {
				continue
			}
			num = field.Mul(num, xs[k])
			den = field.Mul(den, field.Sub(xs[k], xs[j]))
		}
		denInv, err := field.Inv(den)
		if err != nil {
			return nil, err
		}
		coefficients[j] = field.Mul(num, denInv)
	}
	return coefficients, nil
}

package polynomial

import (
	"io"

	"github.com/cronokirby/saferith"

	"github.com/mr-shifu/timelock-lib/core/math/arith"
	"github.com/mr-shifu/timelock-lib/core/math/sample"
	"github.com/mr-shifu/timelock-lib/lib/zero"
)

// Polynomial represents f(X) = a₀ + a₁⋅X + … + aₜ⋅Xᵗ over the share field.
//
// A polynomial carrying a secret constant term is never serialized; it lives
// for the duration of one sharding call and is wiped with Zero.
type Polynomial struct {
	field        *arith.Field
	coefficients []*saferith.Nat
}

// NewPolynomial generates a Polynomial f(X) = constant + a₁⋅X + … + aₜ⋅Xᵗ,
// with the non-constant coefficients drawn uniformly from rng, and degree t.
func NewPolynomial(field *arith.Field, degree int, constant *saferith.Nat, rng io.Reader) (*Polynomial, error) {
	polynomial := &Polynomial{
		field:        field,
		coefficients: make([]*saferith.Nat, degree+1),
	}

	// if the constant is nil, we interpret it as 0.
	if constant == nil {
		constant = new(saferith.Nat).SetUint64(0)
	}
	polynomial.coefficients[0] = constant

	for i := 1; i <= degree; i++ {
		c, err := sample.FieldElement(rng, field)
		if err != nil {
			polynomial.Zero()
			return nil, err
		}
		polynomial.coefficients[i] = c
	}

	return polynomial, nil
}

// Evaluate evaluates a polynomial in a given variable index
// We use Horner's method: https://en.wikipedia.org/wiki/Horner%27s_method
func (p *Polynomial) Evaluate(index *saferith.Nat) *saferith.Nat {
	if index.EqZero() == 1 {
		panic("attempt to leak secret")
	}

	result := new(saferith.Nat).SetUint64(0)
	// reverse order
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// bₙ₋₁ = bₙ * x + aₙ₋₁
		result = p.field.Add(p.field.Mul(result, index), p.coefficients[i])
	}
	return result
}

// Constant returns a copy of the constant coefficient of the polynomial.
func (p *Polynomial) Constant() *saferith.Nat {
	return new(saferith.Nat).SetNat(p.coefficients[0])
}

// Degree is the highest power of the Polynomial.
func (p *Polynomial) Degree() int {
	return len(p.coefficients) - 1
}

// Zero wipes all coefficients, including the secret constant term.
func (p *Polynomial) Zero() {
	for _, c := range p.coefficients {
		zero.Nat(c)
	}
}

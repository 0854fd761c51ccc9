package arith

import (
	"errors"

	"github.com/cronokirby/saferith"

	"github.com/mr-shifu/timelock-lib/lib/params"
)

var ErrInvalidFieldElement = errors.New("arith: value is not a reduced field element")

// Field implements arithmetic over ℤₚ with p = 2⁵²¹ − 1 (the P-521 field
// prime). Every share value, polynomial coefficient and reconstructed secret
// lives in this field; 2⁵²¹ − 1 is the smallest standardized prime with
// comfortable headroom above the 32-byte secrets the library is built for.
type Field struct {
	p *saferith.Modulus
}

func primeBytes() []byte {
	b := make([]byte, params.FieldBytes)
	b[0] = 0x01
	for i := 1; i < len(b); i++ {
		b[i] = 0xFF
	}
	return b
}

// NewField returns the shared share field.
func NewField() *Field {
	return &Field{p: saferith.ModulusFromBytes(primeBytes())}
}

// Modulus returns the field prime as a saferith modulus.
func (f *Field) Modulus() *saferith.Modulus { return f.p }

// IsValid reports whether x is fully reduced mod p.
func (f *Field) IsValid(x *saferith.Nat) bool {
	_, _, lt := x.CmpMod(f.p)
	return lt == 1
}

// Add returns x + y (mod p).
func (f *Field) Add(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModAdd(x, y, f.p)
}

// Sub returns x − y (mod p).
func (f *Field) Sub(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModSub(x, y, f.p)
}

// Mul returns x ⋅ y (mod p).
func (f *Field) Mul(x, y *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).ModMul(x, y, f.p)
}

// Exp returns xᵉ (mod p) by square-and-multiply.
func (f *Field) Exp(x, e *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).Exp(x, e, f.p)
}

// Inv returns x⁻¹ (mod p). p is prime, so every nonzero element is a unit.
func (f *Field) Inv(x *saferith.Nat) (*saferith.Nat, error) {
	if x.EqZero() == 1 {
		return nil, ErrInvalidFieldElement
	}
	return new(saferith.Nat).ModInverse(x, f.p), nil
}

// Bytes returns the canonical fixed-width big-endian encoding of x.
func (f *Field) Bytes(x *saferith.Nat) []byte {
	out := make([]byte, params.FieldBytes)
	x.FillBytes(out)
	return out
}

// FromBytes decodes a canonical encoding, rejecting values ≥ p or of the
// wrong width.
func (f *Field) FromBytes(data []byte) (*saferith.Nat, error) {
	if len(data) != params.FieldBytes {
		return nil, ErrInvalidFieldElement
	}
	x := new(saferith.Nat).SetBytes(data)
	if !f.IsValid(x) {
		return nil, ErrInvalidFieldElement
	}
	return x, nil
}

package arith

import (
	"github.com/cronokirby/saferith"

	"github.com/mr-shifu/timelock-lib/lib/zero"
)

// Modulus wraps a saferith.Modulus and enables faster modular exponentiation
// when the factorization is known.
// When n = p⋅q, xᵉ (mod n) can be computed with only two exponentiations
// with p and q respectively.
//
// The factorization is the puzzle trapdoor: a locker holds it just long
// enough to take the Euler shortcut, then calls Burn. A solver only ever
// sees the public modulus.
type Modulus struct {
	// represents modulus n
	*saferith.Modulus
	// n = p⋅q
	p, q *saferith.Modulus
	// pInv = p⁻¹ (mod q)
	pNat, pInv *saferith.Nat
}

// ModulusFromN creates a simple wrapper around a given public modulus n.
// The modulus is not copied.
func ModulusFromN(n *saferith.Modulus) *Modulus {
	return &Modulus{
		Modulus: n,
	}
}

// ModulusFromFactors creates the cached values that accelerate
// exponentiation mod n = p⋅q.
func ModulusFromFactors(p, q *saferith.Nat) *Modulus {
	nNat := new(saferith.Nat).Mul(p, q, -1)
	nMod := saferith.ModulusFromNat(nNat)
	pMod := saferith.ModulusFromNat(p)
	qMod := saferith.ModulusFromNat(q)
	pInvQ := new(saferith.Nat).ModInverse(p, qMod)
	pNat := new(saferith.Nat).SetNat(p)
	return &Modulus{
		Modulus: nMod,
		p:       pMod,
		q:       qMod,
		pNat:    pNat,
		pInv:    pInvQ,
	}
}

// Exp is equivalent to (saferith.Nat).Exp(x, e, n.Modulus).
// It returns xᵉ (mod n).
func (n *Modulus) Exp(x, e *saferith.Nat) *saferith.Nat {
	if n.hasFactorization() {
		var xp, xq saferith.Nat
		xp.Exp(x, e, n.p) // x₁ = xᵉ (mod p₁)
		xq.Exp(x, e, n.q) // x₂ = xᵉ (mod p₂)
		// r = x₁ + p₁ ⋅ [p₁⁻¹ (mod p₂)] ⋅ [x₁ - x₂] (mod n)
		r := xq.ModSub(&xq, &xp, n.Modulus)
		r.ModMul(r, n.pInv, n.Modulus)
		r.ModMul(r, n.pNat, n.Modulus)
		r.ModAdd(r, &xp, n.Modulus)
		return r
	}
	return new(saferith.Nat).Exp(x, e, n.Modulus)
}

// Phi returns Euler's totient (p−1)(q−1), or nil if the factorization is
// not held. The caller owns the result and must zero it when done.
func (n *Modulus) Phi() *saferith.Nat {
	if !n.hasFactorization() {
		return nil
	}
	one := new(saferith.Nat).SetUint64(1)
	pMinus1 := new(saferith.Nat).Sub(n.p.Nat(), one, -1)
	qMinus1 := new(saferith.Nat).Sub(n.q.Nat(), one, -1)
	phi := new(saferith.Nat).Mul(pMinus1, qMinus1, -1)
	zero.Nats(pMinus1, qMinus1)
	return phi
}

// Burn discards the factorization, leaving only the public modulus. After
// Burn, Exp falls back to the slow path and Phi returns nil.
func (n *Modulus) Burn() {
	zero.Nats(n.pNat, n.pInv)
	n.p = nil
	n.q = nil
	n.pNat = nil
	n.pInv = nil
}

func (n *Modulus) hasFactorization() bool {
	return n.p != nil && n.q != nil && n.pNat != nil && n.pInv != nil
}

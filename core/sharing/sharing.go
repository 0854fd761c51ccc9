// Package sharing implements threshold secret sharing over the prime field
// ℤ_(2⁵²¹−1): a secret embeds as the constant term of a random polynomial of
// degree t−1, shares are evaluations at x = 1…n, and any t of them recover
// the secret by Lagrange interpolation at 0. Reconstruction cross-checks an
// alternate t-subset whenever one is available, so a tampered share surfaces
// as an error instead of a silently wrong secret.
package sharing

import (
	"io"

	"github.com/cronokirby/saferith"

	"github.com/mr-shifu/timelock-lib/core/math/arith"
	"github.com/mr-shifu/timelock-lib/core/math/polynomial"
	"github.com/mr-shifu/timelock-lib/lib/params"
	"github.com/mr-shifu/timelock-lib/lib/zero"
)

// Share is one raw evaluation f(Index) of the sharding polynomial, before
// any puzzle locking.
type Share struct {
	Index uint8
	Value *saferith.Nat
}

// Zero wipes the share value.
func (s *Share) Zero() {
	zero.Nat(s.Value)
}

// Shard splits secret into n shares with reconstruction threshold t. The
// t−1 random coefficients are drawn from rng; the polynomial is wiped before
// Shard returns, on every path.
func Shard(rng io.Reader, field *arith.Field, secret []byte, n, t int) ([]*Share, error) {
	if t < params.MinThreshold || n < t || n > params.MaxShares {
		return nil, ErrInvalidParameters
	}
	constant, err := encodeSecret(secret)
	if err != nil {
		return nil, err
	}

	poly, err := polynomial.NewPolynomial(field, t-1, constant, rng)
	if err != nil {
		zero.Nat(constant)
		return nil, err
	}
	defer poly.Zero()

	shares := make([]*Share, n)
	for i := 1; i <= n; i++ {
		shares[i-1] = &Share{
			Index: uint8(i),
			Value: poly.Evaluate(new(saferith.Nat).SetUint64(uint64(i))),
		}
	}
	return shares, nil
}

// Reconstruct recovers the secret from at least t shares with distinct
// indices. Interpolation uses the first t shares; if more are supplied, the
// last t are interpolated as well and the two results compared, failing with
// ErrInconsistentShares on mismatch.
func Reconstruct(field *arith.Field, shares []*Share, t int) ([]byte, error) {
	if t < params.MinThreshold {
		return nil, ErrInvalidParameters
	}
	seen := make(map[uint8]struct{}, len(shares))
	for _, s := range shares {
		if _, ok := seen[s.Index]; ok {
			return nil, ErrDuplicateIndex
		}
		seen[s.Index] = struct{}{}
	}
	if len(shares) < t {
		return nil, ErrInsufficientShares
	}

	secret, err := interpolate(field, shares[:t])
	if err != nil {
		return nil, err
	}

	if len(shares) > t {
		alternate, err := interpolate(field, shares[len(shares)-t:])
		if err != nil {
			zero.Nat(secret)
			return nil, err
		}
		match := secret.Eq(alternate) == 1
		zero.Nat(alternate)
		if !match {
			zero.Nat(secret)
			return nil, ErrInconsistentShares
		}
	}

	return decodeSecret(field, secret)
}

// interpolate evaluates the unique degree t−1 polynomial through the shares
// at x = 0.
func interpolate(field *arith.Field, shares []*Share) (*saferith.Nat, error) {
	indices := make([]uint8, len(shares))
	for i, s := range shares {
		indices[i] = s.Index
	}
	coefficients, err := polynomial.Lagrange(field, indices)
	if err != nil {
		return nil, err
	}

	result := new(saferith.Nat).SetUint64(0)
	for _, s := range shares {
		result = field.Add(result, field.Mul(coefficients[s.Index], s.Value))
	}
	return result, nil
}

// encodeSecret embeds a byte secret into a field element as 0x01 ‖ secret
// interpreted big-endian. The sentinel byte preserves the secret's exact
// length, leading zeros included.
func encodeSecret(secret []byte) (*saferith.Nat, error) {
	if len(secret) == 0 || len(secret) > params.MaxSecretBytes {
		return nil, ErrInvalidParameters
	}
	buf := make([]byte, len(secret)+1)
	buf[0] = 0x01
	copy(buf[1:], secret)
	x := new(saferith.Nat).SetBytes(buf)
	zero.Bytes(buf)
	return x, nil
}

// decodeSecret reverses encodeSecret, wiping the field element. A missing
// sentinel means the interpolated value is not an embedded secret at all,
// which only happens under tampering or corruption.
func decodeSecret(field *arith.Field, value *saferith.Nat) ([]byte, error) {
	buf := field.Bytes(value)
	zero.Nat(value)

	start := -1
	for i, b := range buf {
		if b != 0 {
			start = i
			break
		}
	}
	if start < 0 || buf[start] != 0x01 || start == len(buf)-1 {
		zero.Bytes(buf)
		return nil, ErrInconsistentShares
	}

	secret := make([]byte, len(buf)-start-1)
	copy(secret, buf[start+1:])
	zero.Bytes(buf)
	return secret, nil
}

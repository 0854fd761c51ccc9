// Package timelock implements a Rivest–Shamir–Wagner sequential-squaring
// time-lock puzzle. Locking uses the factorization of the puzzle modulus to
// reduce the exponent 2^difficulty modulo φ(n) and finish in two modular
// exponentiations; solving without the factorization must perform all
// 2^difficulty squarings one after another, and no amount of parallelism
// helps within a single puzzle instance.
package timelock

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"

	"github.com/cronokirby/saferith"
	"golang.org/x/crypto/sha3"

	"github.com/mr-shifu/timelock-lib/core/math/arith"
	"github.com/mr-shifu/timelock-lib/core/math/sample"
	"github.com/mr-shifu/timelock-lib/lib/params"
	"github.com/mr-shifu/timelock-lib/lib/zero"
	"github.com/mr-shifu/timelock-lib/pkg/hash"
)

var (
	ErrInvalidPuzzle            = errors.New("timelock: invalid puzzle parameters")
	ErrPuzzleVerificationFailed = errors.New("timelock: solved seed does not match verification tag")
)

// checkInterval is how many squarings pass between cancellation checks.
// Cancellation is bounded-granularity: a solve reacts within this many
// steps, never mid-multiplication.
const checkInterval = 1024

const (
	padDomain  = "TIMELOCK-PAD"
	seedDomain = "TIMELOCK-SEED"
)

// Params is the public description of one puzzle instance. It is shared
// read-only between Lock and Unlock and never mutated.
type Params struct {
	// N is the puzzle modulus; its factorization is discarded at lock time.
	N *saferith.Modulus
	// Seed is the public base that must be squared 2^Difficulty times.
	Seed *saferith.Nat
	// Difficulty is the iteration exponent.
	Difficulty uint32
	// Tag commits to the solved value so a wrong solve is detected.
	Tag []byte
}

// Stats reports the sequential work a solve actually performed.
type Stats struct {
	Squarings uint64
}

// Lock hides payload behind a fresh puzzle of the given difficulty.
// It generates an RSA-style modulus of primeBits bits from rng, takes the
// Euler shortcut through the factorization, discards the trapdoor, and
// returns the public parameters together with the locked blob
// (payload ⊕ SHAKE256(solved seed)).
func Lock(rng io.Reader, payload []byte, difficulty uint32, primeBits int) (*Params, []byte, error) {
	if len(payload) == 0 || difficulty > params.MaxDifficulty || primeBits < 128 {
		return nil, nil, ErrInvalidPuzzle
	}

	p, err := sample.Prime(rng, primeBits/2)
	if err != nil {
		return nil, nil, err
	}
	q, err := sample.Prime(rng, primeBits/2)
	if err != nil {
		zero.Nat(p)
		return nil, nil, err
	}
	for q.Eq(p) == 1 {
		if q, err = sample.Prime(rng, primeBits/2); err != nil {
			zero.Nat(p)
			return nil, nil, err
		}
	}

	modulus := arith.ModulusFromFactors(p, q)
	zero.Nats(p, q)

	seed, err := sample.ModN(rng, modulus.Modulus)
	if err != nil {
		modulus.Burn()
		return nil, nil, err
	}

	// The solver must square 2^difficulty times, i.e. compute x^(2^t) for
	// t = 2^difficulty. With φ(n) in hand the exponent collapses to
	// e = 2^t (mod φ): t is a power of two, so e is just 2 squared
	// `difficulty` times mod φ. This shortcut exists only while the
	// factorization is held. φ is even, so plain ModMul is used rather
	// than Montgomery exponentiation.
	phiNat := modulus.Phi()
	phi := saferith.ModulusFromNat(phiNat)
	exponent := new(saferith.Nat).SetUint64(2)
	for i := uint32(0); i < difficulty; i++ {
		exponent.ModMul(exponent, exponent, phi)
	}
	zero.Nat(phiNat)

	solved := modulus.Exp(seed, exponent)
	modulus.Burn()
	zero.Nat(exponent)

	solvedBytes := canonical(solved, modulus.Modulus)
	zero.Nat(solved)

	blob := make([]byte, len(payload))
	pad := derivePad(solvedBytes, len(payload))
	for i := range payload {
		blob[i] = payload[i] ^ pad[i]
	}
	zero.Bytes(pad)

	tag := seedTag(solvedBytes)
	zero.Bytes(solvedBytes)

	return &Params{
		N:          modulus.Modulus,
		Seed:       seed,
		Difficulty: difficulty,
		Tag:        tag,
	}, blob, nil
}

// Unlock solves the puzzle by performing all 2^difficulty sequential
// squarings, verifies the solved seed against the tag, and recovers the
// payload. The context is checked every checkInterval squarings; on
// cancellation the in-flight state is wiped and no payload is returned.
func Unlock(ctx context.Context, puzzle *Params, blob []byte) ([]byte, *Stats, error) {
	if puzzle == nil || puzzle.N == nil || puzzle.Seed == nil || len(blob) == 0 {
		return nil, nil, ErrInvalidPuzzle
	}
	if puzzle.Difficulty > params.MaxDifficulty {
		return nil, nil, ErrInvalidPuzzle
	}

	iterations := uint64(1) << puzzle.Difficulty
	y := new(saferith.Nat).SetNat(puzzle.Seed)
	for i := uint64(0); i < iterations; i++ {
		if i%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				zero.Nat(y)
				return nil, nil, err
			}
		}
		y.ModMul(y, y, puzzle.N)
	}
	stats := &Stats{Squarings: iterations}

	solvedBytes := canonical(y, puzzle.N)
	zero.Nat(y)

	tag := seedTag(solvedBytes)
	if subtle.ConstantTimeCompare(tag, puzzle.Tag) != 1 {
		zero.Bytes(solvedBytes)
		return nil, stats, ErrPuzzleVerificationFailed
	}

	payload := make([]byte, len(blob))
	pad := derivePad(solvedBytes, len(blob))
	for i := range blob {
		payload[i] = blob[i] ^ pad[i]
	}
	zero.Slices(pad, solvedBytes)

	return payload, stats, nil
}

// canonical returns x as a fixed-width big-endian buffer matching the
// modulus size, so the lock and solve paths hash identical encodings.
func canonical(x *saferith.Nat, n *saferith.Modulus) []byte {
	out := make([]byte, len(n.Bytes()))
	x.FillBytes(out)
	return out
}

// derivePad stretches the solved seed into an XOR pad of the given length.
func derivePad(solved []byte, length int) []byte {
	shake := sha3.NewShake256()
	_, _ = shake.Write([]byte(padDomain))
	_, _ = shake.Write(solved)
	pad := make([]byte, length)
	_, _ = io.ReadFull(shake, pad)
	return pad
}

// seedTag commits to the solved seed value.
func seedTag(solved []byte) []byte {
	h := hash.New(hash.BytesWithDomain{TheDomain: seedDomain, Bytes: solved})
	tag := make([]byte, params.TagBytes)
	if _, err := io.ReadFull(h.Digest(), tag); err != nil {
		panic("timelock: internal hash failure")
	}
	return tag
}

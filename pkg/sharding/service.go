// Package sharding orchestrates threshold secret sharing, backdoor
// screening, time-lock puzzles and record encoding into the two operations
// callers use: ShardKey and ReconstructKey. The service is stateless between
// invocations and fails closed: it never returns a secret it could not
// verify as consistent.
package sharding

import (
	"context"
	stderrors "errors"
	"io"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mr-shifu/timelock-lib/core/entropy"
	"github.com/mr-shifu/timelock-lib/core/math/arith"
	"github.com/mr-shifu/timelock-lib/core/sharing"
	"github.com/mr-shifu/timelock-lib/core/timelock"
	"github.com/mr-shifu/timelock-lib/lib/params"
	"github.com/mr-shifu/timelock-lib/lib/zero"
	"github.com/mr-shifu/timelock-lib/pkg/codec"
)

const (
	// DefaultEntropyFloor suits the 66-byte field-element encodings being
	// screened; per-byte entropy of an m-byte buffer cannot exceed log2(m).
	DefaultEntropyFloor = 4.0

	// DefaultMaxRetries bounds polynomial regeneration after a backdoor
	// rejection.
	DefaultMaxRetries = 5
)

// Config carries the public sharding parameters. Zero values for the tuning
// fields select the documented defaults.
type Config struct {
	// N is the total number of shares, T the reconstruction threshold.
	N int
	T int
	// Difficulty is the puzzle iteration exponent: unlocking one share
	// costs 2^Difficulty sequential squarings.
	Difficulty uint32
	// PuzzleBits is the puzzle modulus size (default params.PuzzleBits).
	PuzzleBits int
	// EntropyFloor and BiasAlpha tune the backdoor detector.
	EntropyFloor float64
	BiasAlpha    float64
	// MaxRetries bounds share-set regeneration on detector rejection.
	MaxRetries int
	// Workers caps concurrent puzzle solves (default runtime.NumCPU()).
	Workers int
}

func (cfg Config) withDefaults() Config {
	if cfg.PuzzleBits == 0 {
		cfg.PuzzleBits = params.PuzzleBits
	}
	if cfg.EntropyFloor == 0 {
		cfg.EntropyFloor = DefaultEntropyFloor
	}
	if cfg.BiasAlpha == 0 {
		cfg.BiasAlpha = entropy.DefaultAlpha
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg
}

type Service struct {
	cfg   Config
	field *arith.Field
}

// NewService validates the configuration and returns a stateless service.
func NewService(cfg Config) (*Service, error) {
	if cfg.T < params.MinThreshold || cfg.N < cfg.T || cfg.N > params.MaxShares {
		return nil, sharing.ErrInvalidParameters
	}
	if cfg.Difficulty > params.MaxDifficulty {
		return nil, timelock.ErrInvalidPuzzle
	}
	return &Service{
		cfg:   cfg.withDefaults(),
		field: arith.NewField(),
	}, nil
}

// ShardKey splits secret into N locked share records. Raw evaluations are
// screened by the backdoor detector before locking; on any rejection the
// whole polynomial is regenerated, up to MaxRetries times. The rng is an
// explicit dependency so tests can make generation deterministic.
func (s *Service) ShardKey(ctx context.Context, rng io.Reader, secret []byte) ([][]byte, error) {
	var lastReject error
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, mapContextErr(err)
		}

		shares, err := sharing.Shard(rng, s.field, secret, s.cfg.N, s.cfg.T)
		if err != nil {
			return nil, err
		}

		if err := s.screen(ctx, shares); err != nil {
			zeroShares(shares)
			if ctx.Err() != nil {
				return nil, mapContextErr(ctx.Err())
			}
			lastReject = err
			continue
		}

		records, err := s.lock(rng, shares)
		zeroShares(shares)
		if err != nil {
			return nil, err
		}
		return records, nil
	}
	return nil, errors.WithMessagef(ErrBackdoorGenerationFailed, "%d attempts, last rejection: %v", s.cfg.MaxRetries, lastReject)
}

// screen runs the backdoor detector over the raw evaluations. Shares are
// independent, so screening fans out across goroutines.
func (s *Service) screen(ctx context.Context, shares []*sharing.Share) error {
	g, _ := errgroup.WithContext(ctx)
	for _, share := range shares {
		share := share
		g.Go(func() error {
			raw := s.field.Bytes(share.Value)
			defer zero.Bytes(raw)
			if err := entropy.Validate(raw, s.cfg.EntropyFloor, s.cfg.BiasAlpha); err != nil {
				return errors.WithMessagef(err, "share %d", share.Index)
			}
			return nil
		})
	}
	return g.Wait()
}

// lock wraps each accepted evaluation behind its own puzzle and encodes the
// result. Locking stays sequential: it is cheap thanks to the trapdoor, and
// the rng is a shared reader.
func (s *Service) lock(rng io.Reader, shares []*sharing.Share) ([][]byte, error) {
	records := make([][]byte, len(shares))
	for i, share := range shares {
		payload := s.field.Bytes(share.Value)
		puzzle, blob, err := timelock.Lock(rng, payload, s.cfg.Difficulty, s.cfg.PuzzleBits)
		zero.Bytes(payload)
		if err != nil {
			return nil, errors.WithMessagef(err, "locking share %d", share.Index)
		}
		record, err := codec.Encode(&codec.ShareRecord{
			Index:  share.Index,
			Puzzle: puzzle,
			Blob:   blob,
		})
		if err != nil {
			return nil, err
		}
		records[i] = record
	}
	return records, nil
}

// ReconstructKey decodes the given records, solves their puzzles across a
// worker pool, cross-checks consistency and interpolates the secret. The
// caller must zero the returned secret after use.
func (s *Service) ReconstructKey(ctx context.Context, records [][]byte) ([]byte, error) {
	decoded := make([]*codec.ShareRecord, len(records))
	seen := make(map[uint8]struct{}, len(records))
	for i, record := range records {
		rec, err := codec.Decode(record)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[rec.Index]; ok {
			return nil, sharing.ErrDuplicateIndex
		}
		seen[rec.Index] = struct{}{}
		decoded[i] = rec
	}
	if len(decoded) < s.cfg.T {
		return nil, sharing.ErrInsufficientShares
	}

	// Each solve is inherently sequential, but puzzles for different shares
	// are independent.
	shares := make([]*sharing.Share, len(decoded))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, rec := range decoded {
		i, rec := i, rec
		g.Go(func() error {
			payload, _, err := timelock.Unlock(gctx, rec.Puzzle, rec.Blob)
			if err != nil {
				return errors.WithMessagef(err, "share %d", rec.Index)
			}
			value, err := s.field.FromBytes(payload)
			zero.Bytes(payload)
			if err != nil {
				return errors.WithMessagef(err, "share %d", rec.Index)
			}
			shares[i] = &sharing.Share{Index: rec.Index, Value: value}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		zeroShares(shares)
		return nil, mapContextErr(err)
	}

	secret, err := sharing.Reconstruct(s.field, shares, s.cfg.T)
	zeroShares(shares)
	if err != nil {
		return nil, err
	}
	return secret, nil
}

// ValidateRecords re-screens a set of encoded records, reporting the first
// structural or statistical problem found. Only the public parts of a record
// are inspected; locked payloads stay locked.
func (s *Service) ValidateRecords(records [][]byte) error {
	for _, record := range records {
		rec, err := codec.Decode(record)
		if err != nil {
			return err
		}
		if err := entropy.Validate(rec.Blob, s.cfg.EntropyFloor, s.cfg.BiasAlpha); err != nil {
			return errors.WithMessagef(err, "share %d locked blob", rec.Index)
		}
	}
	return nil
}

func zeroShares(shares []*sharing.Share) {
	for _, share := range shares {
		if share != nil && share.Value != nil {
			zero.Nat(share.Value)
		}
	}
}

// mapContextErr converts context errors into the service taxonomy; other
// errors pass through unchanged.
func mapContextErr(err error) error {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case stderrors.Is(err, context.Canceled):
		return ErrCancelled
	default:
		return err
	}
}

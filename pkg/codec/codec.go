// Package codec serializes locked share records to a versioned,
// self-describing byte layout:
//
//	[version:1][index:1][seedLen:2][seed][modulusLen:2][modulus]
//	[difficulty:4][blobLen:2][blob][tagLen:1][tag]
//
// All integers are fixed-width big-endian. The record's field-value slot
// carries the puzzle seed: the share's actual field element is exactly what
// the locked blob hides, so it never appears in the clear. The codec is
// purely structural and performs no cryptography.
package codec

import (
	"encoding/binary"

	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"

	"github.com/mr-shifu/timelock-lib/core/timelock"
	"github.com/mr-shifu/timelock-lib/lib/params"
)

// Version is the current record layout version.
const Version = 1

var ErrMalformedShare = errors.New("codec: malformed share record")

// ShareRecord is one locked share in portable form.
type ShareRecord struct {
	Index  uint8
	Puzzle *timelock.Params
	Blob   []byte
}

// Encode serializes a record.
func Encode(r *ShareRecord) ([]byte, error) {
	if r == nil || r.Puzzle == nil || r.Puzzle.N == nil || r.Puzzle.Seed == nil {
		return nil, ErrMalformedShare
	}
	if r.Index == 0 {
		return nil, errors.WithMessage(ErrMalformedShare, "index 0 is reserved")
	}
	seed := r.Puzzle.Seed.Bytes()
	modulus := r.Puzzle.N.Bytes()
	tag := r.Puzzle.Tag
	if len(seed) == 0 || len(modulus) == 0 || len(r.Blob) == 0 || len(tag) == 0 {
		return nil, ErrMalformedShare
	}
	if len(seed) > 0xFFFF || len(modulus) > 0xFFFF || len(r.Blob) > 0xFFFF || len(tag) > 0xFF {
		return nil, errors.WithMessage(ErrMalformedShare, "field too long")
	}

	buf := make([]byte, 0, 2+2+len(seed)+2+len(modulus)+4+2+len(r.Blob)+1+len(tag))
	buf = append(buf, Version, r.Index)
	buf = appendUint16(buf, uint16(len(seed)))
	buf = append(buf, seed...)
	buf = appendUint16(buf, uint16(len(modulus)))
	buf = append(buf, modulus...)
	buf = binary.BigEndian.AppendUint32(buf, r.Puzzle.Difficulty)
	buf = appendUint16(buf, uint16(len(r.Blob)))
	buf = append(buf, r.Blob...)
	buf = append(buf, uint8(len(tag)))
	buf = append(buf, tag...)
	return buf, nil
}

// Decode parses a record, rejecting truncated, version-mismatched, or
// out-of-range input.
func Decode(data []byte) (*ShareRecord, error) {
	c := cursor{data: data}

	version, err := c.byte()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, errors.WithMessagef(ErrMalformedShare, "unsupported version %d", version)
	}
	index, err := c.byte()
	if err != nil {
		return nil, err
	}
	if index == 0 {
		return nil, errors.WithMessage(ErrMalformedShare, "index 0 is reserved")
	}

	seed, err := c.lengthPrefixed16()
	if err != nil {
		return nil, err
	}
	modulus, err := c.lengthPrefixed16()
	if err != nil {
		return nil, err
	}
	difficulty, err := c.uint32()
	if err != nil {
		return nil, err
	}
	if difficulty > params.MaxDifficulty {
		return nil, errors.WithMessagef(ErrMalformedShare, "difficulty %d out of range", difficulty)
	}
	blob, err := c.lengthPrefixed16()
	if err != nil {
		return nil, err
	}
	tagLen, err := c.byte()
	if err != nil {
		return nil, err
	}
	tag, err := c.take(int(tagLen))
	if err != nil {
		return nil, err
	}
	if tagLen == 0 {
		return nil, errors.WithMessage(ErrMalformedShare, "empty verification tag")
	}
	if !c.done() {
		return nil, errors.WithMessage(ErrMalformedShare, "trailing bytes")
	}

	modNat := new(saferith.Nat).SetBytes(modulus)
	one := new(saferith.Nat).SetUint64(1)
	if gt, _, _ := modNat.Cmp(one); gt != 1 {
		return nil, errors.WithMessage(ErrMalformedShare, "puzzle modulus out of range")
	}
	n := saferith.ModulusFromNat(modNat)
	seedNat := new(saferith.Nat).SetBytes(seed)
	if _, _, lt := seedNat.CmpMod(n); lt != 1 {
		return nil, errors.WithMessage(ErrMalformedShare, "seed not reduced mod puzzle modulus")
	}

	return &ShareRecord{
		Index: index,
		Puzzle: &timelock.Params{
			N:          n,
			Seed:       seedNat,
			Difficulty: difficulty,
			Tag:        tag,
		},
		Blob: blob,
	}, nil
}

func appendUint16(buf []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(buf, v)
}

// cursor walks a record with explicit bounds checks.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) byte() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) uint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *cursor) lengthPrefixed16() ([]byte, error) {
	lb, err := c.take(2)
	if err != nil {
		return nil, err
	}
	length := int(binary.BigEndian.Uint16(lb))
	if length == 0 {
		return nil, errors.WithMessage(ErrMalformedShare, "empty field")
	}
	return c.take(length)
}

func (c *cursor) take(n int) ([]byte, error) {
	if c.off+n > len(c.data) {
		return nil, errors.WithMessagef(ErrMalformedShare, "truncated at offset %d", c.off)
	}
	out := c.data[c.off : c.off+n]
	c.off += n
	return out, nil
}

func (c *cursor) done() bool {
	return c.off == len(c.data)
}

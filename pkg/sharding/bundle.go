package sharding

import (
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mr-shifu/timelock-lib/lib/params"
	"github.com/mr-shifu/timelock-lib/pkg/vault"
)

// Bundle groups the records of one sharding call with the public parameters
// needed to reconstruct from them. Records inside a bundle carry only locked
// material, so a bundle is safe to hold at rest; distributing its records to
// independent parties is still the caller's job.
type Bundle struct {
	ID         string    `cbor:"id"`
	N          int       `cbor:"n"`
	T          int       `cbor:"t"`
	Difficulty uint32    `cbor:"difficulty"`
	CreatedAt  time.Time `cbor:"created_at"`
	Records    [][]byte  `cbor:"records"`
}

// NewBundle wraps freshly sharded records under a random bundle ID.
func (s *Service) NewBundle(records [][]byte) *Bundle {
	return &Bundle{
		ID:         uuid.NewString(),
		N:          s.cfg.N,
		T:          s.cfg.T,
		Difficulty: s.cfg.Difficulty,
		CreatedAt:  time.Now().UTC(),
		Records:    records,
	}
}

// bundleWire strips Bundle's methods so cbor encodes the struct fields
// instead of re-entering MarshalBinary.
type bundleWire Bundle

func (b *Bundle) MarshalBinary() ([]byte, error) {
	return cbor.Marshal((*bundleWire)(b))
}

func (b *Bundle) UnmarshalBinary(data []byte) error {
	if err := cbor.Unmarshal(data, (*bundleWire)(b)); err != nil {
		return err
	}
	return b.validate()
}

func (b *Bundle) validate() error {
	if b.ID == "" {
		return errors.New("sharding: bundle without ID")
	}
	if b.T < params.MinThreshold || b.N < b.T || b.N > params.MaxShares {
		return errors.Errorf("sharding: bundle carries invalid parameters n=%d t=%d", b.N, b.T)
	}
	if len(b.Records) != b.N {
		return errors.Errorf("sharding: bundle carries %d records, expected %d", len(b.Records), b.N)
	}
	return nil
}

// StoreBundle serializes a bundle into the vault under its ID.
func StoreBundle(store vault.Vault, b *Bundle) error {
	if err := b.validate(); err != nil {
		return err
	}
	data, err := b.MarshalBinary()
	if err != nil {
		return err
	}
	return store.Import(b.ID, data)
}

// LoadBundle fetches and decodes a bundle from the vault.
func LoadBundle(store vault.Vault, bundleID string) (*Bundle, error) {
	data, err := store.Get(bundleID)
	if err != nil {
		return nil, err
	}
	b := new(Bundle)
	if err := b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

package test

import (
	"io"

	"golang.org/x/crypto/sha3"
)

// Rng returns a deterministic byte stream derived from seed, so tests that
// take an explicit random source are reproducible.
func Rng(seed string) io.Reader {
	shake := sha3.NewShake256()
	_, _ = shake.Write([]byte(seed))
	return shake
}

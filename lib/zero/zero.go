package zero

import (
	"crypto/subtle"

	"github.com/cronokirby/saferith"
)

// Bytes overwrites b with zeros. subtle.ConstantTimeCopy keeps the write
// from being elided by the compiler.
func Bytes(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}

// Slices zeros every given buffer.
func Slices(bufs ...[]byte) {
	for _, b := range bufs {
		Bytes(b)
	}
}

// Nat overwrites the value held by n. saferith does not expose its limb
// buffer, so this clears the announced value rather than the backing array.
func Nat(n *saferith.Nat) {
	if n != nil {
		n.SetUint64(0)
	}
}

// Nats zeros every given nat.
func Nats(ns ...*saferith.Nat) {
	for _, n := range ns {
		Nat(n)
	}
}

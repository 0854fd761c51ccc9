package hash

import "io"

// WriterToWithDomain represents a type writing itself, and knowing its domain.
//
// Providing a domain string lets us distinguish the byte encodings of
// different types.
type WriterToWithDomain interface {
	io.WriterTo
	// Domain returns a context string, which should be unique for each type.
	Domain() string
}

// BytesWithDomain is a useful wrapper to annotate some chunk of data with a
// domain.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

func (b BytesWithDomain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes)
	return int64(n), err
}

func (b BytesWithDomain) Domain() string {
	return b.TheDomain
}

// Package mhash implements the multihash envelope used to make every
// mediachain record content-addressed: a one-byte algorithm code, a
// one-byte digest length, and the digest itself. The envelope itself is
// github.com/multiformats/go-multihash (the same library ipfs-go-ipld-cbor
// and storacha-indexing-service use for exactly this purpose) — this
// package adds the SHA-256 sum this system computes and wraps validation
// failures in an error the record layer reports as
// ReferenceDecodingFailed.
package mhash

import (
	"fmt"

	multihash "github.com/multiformats/go-multihash"
)

// SHA256DigestSize is the digest length, in bytes, of the only hash
// algorithm this system needs to produce or validate.
const SHA256DigestSize = 32

// Multihash is a validated, self-describing hash envelope: algorithm
// code + length byte + digest. Its wire form is always the raw bytes
// returned by Bytes.
type Multihash struct {
	raw []byte
}

// Bytes returns the raw multihash bytes (header + digest).
func (m Multihash) Bytes() []byte {
	out := make([]byte, len(m.raw))
	copy(out, m.raw)
	return out
}

// Equal reports whether two multihashes carry the same bytes.
func (m Multihash) Equal(other Multihash) bool {
	if len(m.raw) != len(other.raw) {
		return false
	}
	for i := range m.raw {
		if m.raw[i] != other.raw[i] {
			return false
		}
	}
	return true
}

// FromBytes validates b as a multihash envelope: a decodable algorithm
// code, a length byte matching the declared digest length, and a total
// length matching header+digest. Only the envelope shape is validated
// here; any algorithm multihash itself recognizes is accepted, per
// spec.md §4.2 ("other algorithms may be accepted through the same
// envelope").
func FromBytes(b []byte) (Multihash, error) {
	decoded, err := multihash.Cast(b)
	if err != nil {
		return Multihash{}, fmt.Errorf("invalid multihash: %w", err)
	}
	return Multihash{raw: []byte(decoded)}, nil
}

// SumSHA256 computes the SHA-256 multihash of data: this is the
// system's sole content-address digest function.
func SumSHA256(data []byte) Multihash {
	sum, err := multihash.Sum(data, multihash.SHA2_256, SHA256DigestSize)
	if err != nil {
		// multihash.Sum only fails for unsupported algorithms or bad
		// lengths; SHA2_256/32 is always valid.
		panic(fmt.Sprintf("mhash: sha256 sum: %v", err))
	}
	return Multihash{raw: []byte(sum)}
}

package mhash

// Reference is a content address: an opaque identifier computed from a
// record's canonical encoding. The record layer treats it as a narrow
// interface so future reference schemes (never implemented here — see
// spec.md non-goals) would not require changing every call site.
type Reference interface {
	// Bytes returns the raw multihash bytes this reference wraps.
	Bytes() []byte
	// Equal reports whether two references address the same content.
	Equal(Reference) bool
}

// MultihashReference is the system's sole Reference implementation.
type MultihashReference struct {
	Hash Multihash
}

// NewMultihashReference wraps an already-validated Multihash as a Reference.
func NewMultihashReference(h Multihash) MultihashReference {
	return MultihashReference{Hash: h}
}

// ReferenceFromBytes validates raw multihash bytes and wraps them as a Reference.
func ReferenceFromBytes(b []byte) (MultihashReference, error) {
	h, err := FromBytes(b)
	if err != nil {
		return MultihashReference{}, err
	}
	return MultihashReference{Hash: h}, nil
}

// ReferenceForBytes computes the content address of arbitrary bytes.
func ReferenceForBytes(data []byte) MultihashReference {
	return MultihashReference{Hash: SumSHA256(data)}
}

func (r MultihashReference) Bytes() []byte { return r.Hash.Bytes() }

func (r MultihashReference) Equal(other Reference) bool {
	o, ok := other.(MultihashReference)
	if !ok {
		return false
	}
	return r.Hash.Equal(o.Hash)
}

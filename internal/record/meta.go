package record

import "github.com/mediachain/mcrecord/internal/cborx"

// Metadata is a string-keyed map of CBOR primitive values: the
// open-ended, forward-compatible annotation layer every record carries
// alongside its typed structural fields (spec.md §3 "Metadata map").
// Insertion order carries no meaning; canonical encoding always sorts
// keys (enforced by internal/cborx.Encode, not by this type).
type Metadata map[string]cborx.Value

// Clone returns a shallow copy of m. Records are immutable once
// constructed (spec.md §3 "Lifecycle"); callers that build a new record
// from an existing one's metadata should clone first.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// WithoutKeys returns a copy of m with the given keys removed. Used by
// typed accessors that want only the pass-through (non-structural)
// portion of a record's raw metadata.
func (m Metadata) WithoutKeys(keys ...string) Metadata {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		if _, skip := drop[k]; skip {
			continue
		}
		out[k] = v
	}
	return out
}

// GetText returns the text-string metadata value for key, if present.
func (m Metadata) GetText(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	return v.AsText()
}

// GetBytes returns the byte-string metadata value for key, if present.
func (m Metadata) GetBytes(key string) ([]byte, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	return v.AsBytes()
}

// GetBool returns the boolean metadata value for key, if present.
func (m Metadata) GetBool(key string) (bool, bool) {
	v, ok := m[key]
	if !ok || v.Kind != cborx.KindBool {
		return false, false
	}
	return v.Bool, true
}
